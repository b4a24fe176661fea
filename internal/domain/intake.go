package domain

// PDFUpload is an RFP document received from the browser
type PDFUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExtractResponse carries the plain text of an uploaded RFP document and
// where the document was stored. FilePath is empty when uploads are not kept.
type ExtractResponse struct {
	ExtractedText string `json:"extractedText"`
	FilePath      string `json:"filePath"`
}
