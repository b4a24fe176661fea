package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rfpdesk/backend/internal/domain"
	"github.com/rfpdesk/backend/internal/infrastructure/metrics"
	"github.com/rfpdesk/backend/internal/usecase"
	"go.uber.org/zap"
)

// Summarizer produces an RFP summary
type Summarizer interface {
	Summarize(ctx context.Context, req *domain.SummarizeRequest) (*domain.SummarizeResponse, error)
}

// Matcher ranks catalog products against RFP requirements
type Matcher interface {
	Match(ctx context.Context, req *domain.MatchRequest) (*domain.MatchResponse, error)
}

// ProposalWriter drafts the proposal document
type ProposalWriter interface {
	Generate(ctx context.Context, req *domain.ProposalRequest) (*domain.ProposalResponse, error)
}

// Quoter computes the pricing breakdown
type Quoter interface {
	Quote(req *domain.QuoteRequest) (*domain.Quote, error)
}

// DocumentIntake turns an uploaded RFP document into text
type DocumentIntake interface {
	Extract(ctx context.Context, upload *domain.PDFUpload) (*domain.ExtractResponse, error)
}

// Services groups the use cases served over HTTP
type Services struct {
	Summarizer Summarizer
	Matcher    Matcher
	Proposals  ProposalWriter
	Quoter     Quoter
	Intake     DocumentIntake
	Catalog    *domain.Catalog
}

// multipartOverhead leaves room for boundaries and part headers on top of
// the file size limit
const multipartOverhead = 1 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	services Services
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	useJSONFieldNames()

	return &Handler{
		services: services,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "rfpdesk-backend",
		"version": "1.0.0",
	})
}

// Summarize handles POST /api/v1/summarize
func (h *Handler) Summarize(c *gin.Context) {
	var req domain.SummarizeRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, usecase.OperationSummarize, err)
		return
	}

	resp, err := h.services.Summarizer.Summarize(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.logger, usecase.OperationSummarize, err)
		return
	}

	h.succeed(c, usecase.OperationSummarize, resp)
}

// Match handles POST /api/v1/match
func (h *Handler) Match(c *gin.Context) {
	var req domain.MatchRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, usecase.OperationMatch, err)
		return
	}

	resp, err := h.services.Matcher.Match(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.logger, usecase.OperationMatch, err)
		return
	}

	h.succeed(c, usecase.OperationMatch, resp)
}

// GenerateProposal handles POST /api/v1/generate-proposal
func (h *Handler) GenerateProposal(c *gin.Context) {
	var req domain.ProposalRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, usecase.OperationGenerateProposal, err)
		return
	}

	resp, err := h.services.Proposals.Generate(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.logger, usecase.OperationGenerateProposal, err)
		return
	}

	h.succeed(c, usecase.OperationGenerateProposal, resp)
}

// Quote handles POST /api/v1/pricing/quote
func (h *Handler) Quote(c *gin.Context) {
	const operation = "pricing-quote"

	var req domain.QuoteRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, operation, err)
		return
	}

	quote, err := h.services.Quoter.Quote(&req)
	if err != nil {
		writeError(c, h.logger, operation, err)
		return
	}

	h.succeed(c, operation, quote)
}

// ExtractPDFText handles POST /api/v1/extract-pdf-text (multipart field "file")
func (h *Handler) ExtractPDFText(c *gin.Context) {
	const operation = usecase.OperationExtractPDFText

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecase.MaxPDFBytes+multipartOverhead)

	upload, err := readPDFUpload(c)
	if err != nil {
		writeError(c, h.logger, operation, err)
		return
	}

	resp, err := h.services.Intake.Extract(c.Request.Context(), upload)
	if err != nil {
		writeError(c, h.logger, operation, err)
		return
	}

	h.succeed(c, operation, resp)
}

func readPDFUpload(c *gin.Context) (*domain.PDFUpload, error) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: file size must be less than 10MB", domain.ErrInvalidRequest)
		}
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidRequest)
	}
	if header.Size > usecase.MaxPDFBytes {
		return nil, fmt.Errorf("%w: file size must be less than 10MB", domain.ErrInvalidRequest)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return &domain.PDFUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Catalog handles GET /api/v1/catalog
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"catalog": h.services.Catalog.Entries()})
}

func (h *Handler) succeed(c *gin.Context, operation string, body interface{}) {
	metrics.GatewayRequests.WithLabelValues(operation, "success").Inc()
	c.JSON(http.StatusOK, body)
}
