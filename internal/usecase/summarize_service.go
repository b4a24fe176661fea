package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rfpdesk/backend/internal/domain"
	"go.uber.org/zap"
)

// SummarizeService turns raw RFP text into a structured summary
type SummarizeService struct {
	llm    domain.ChatCompleter
	logger *zap.Logger
}

// NewSummarizeService creates a new summarize service
func NewSummarizeService(llm domain.ChatCompleter, logger *zap.Logger) *SummarizeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummarizeService{llm: llm, logger: logger}
}

// Summarize asks the model for an RFP summary and returns it verbatim
func (s *SummarizeService) Summarize(ctx context.Context, req *domain.SummarizeRequest) (*domain.SummarizeResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidRequest)
	}

	s.logger.Info("processing RFP summarization", zap.String("title", req.Title))

	summary, err := s.llm.Complete(ctx, buildSummarizePrompt(req))
	if err != nil {
		return nil, err
	}

	s.logger.Info("RFP summarization completed", zap.String("title", req.Title), zap.Int("length", len(summary)))

	return &domain.SummarizeResponse{Summary: summary}, nil
}
