package usecase

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/rfpdesk/backend/internal/domain"
	"go.uber.org/zap"
)

// OperationExtractPDFText names the document upload operation
const OperationExtractPDFText = "extract-pdf-text"

// MaxPDFBytes caps the size of an uploaded RFP document
const MaxPDFBytes = 10 << 20

var pdfMagic = []byte("%PDF-")

// IntakeService turns an uploaded RFP PDF into text for summarization
type IntakeService struct {
	extractor domain.TextExtractor
	store     domain.DocumentStore
	logger    *zap.Logger
}

// NewIntakeService creates a new intake service. A nil store skips
// keeping the uploaded file.
func NewIntakeService(extractor domain.TextExtractor, store domain.DocumentStore, logger *zap.Logger) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{extractor: extractor, store: store, logger: logger}
}

// Extract validates the upload, stores it when a store is configured and
// returns its text
func (s *IntakeService) Extract(ctx context.Context, upload *domain.PDFUpload) (*domain.ExtractResponse, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidRequest)
	}
	if len(upload.Data) > MaxPDFBytes {
		return nil, fmt.Errorf("%w: file size must be less than 10MB", domain.ErrInvalidRequest)
	}
	if !isPDF(upload) {
		return nil, fmt.Errorf("%w: file must be a PDF", domain.ErrInvalidRequest)
	}

	s.logger.Info("extracting RFP document text",
		zap.String("filename", upload.Filename),
		zap.Int("size", len(upload.Data)))

	text, err := s.extractor.ExtractText(ctx, upload.Data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text could be extracted from the PDF", domain.ErrInvalidRequest)
	}

	resp := &domain.ExtractResponse{ExtractedText: text}
	if s.store != nil {
		path, err := s.store.Save(ctx, upload.Filename, upload.Data)
		if err != nil {
			return nil, err
		}
		resp.FilePath = path
	}

	s.logger.Info("RFP document text extracted",
		zap.String("filename", upload.Filename),
		zap.String("file_path", resp.FilePath),
		zap.Int("length", len(text)))

	return resp, nil
}

// isPDF requires both the declared content type and the file signature
func isPDF(upload *domain.PDFUpload) bool {
	mediaType, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil || mediaType != "application/pdf" {
		return false
	}
	return bytes.HasPrefix(upload.Data, pdfMagic)
}
