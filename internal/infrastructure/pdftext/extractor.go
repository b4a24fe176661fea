package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rfpdesk/backend/internal/domain"
	"go.uber.org/zap"
)

// Extractor reads the text layer of PDF documents. Scanned documents
// without a text layer yield no text.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a PDF text extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// ExtractText returns the plain text of every page in document order.
// Unreadable documents are reported as domain.ErrInvalidRequest.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("pdf parser panicked", zap.Any("panic", r))
			text = ""
			err = fmt.Errorf("%w: file is not a readable PDF", domain.ErrInvalidRequest)
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Debug("failed to open pdf", zap.Error(err))
		return "", fmt.Errorf("%w: file is not a readable PDF", domain.ErrInvalidRequest)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		e.logger.Debug("failed to read pdf text", zap.Error(err))
		return "", fmt.Errorf("%w: file is not a readable PDF", domain.ErrInvalidRequest)
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted text: %w", err)
	}

	e.logger.Debug("pdf text extracted",
		zap.Int("pages", reader.NumPage()),
		zap.Int("length", len(raw)))

	return strings.TrimSpace(string(raw)), nil
}
