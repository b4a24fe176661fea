package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rfpdesk/backend/internal/domain"
	"go.uber.org/zap"
)

// DefaultCompanyName is used when the caller does not name the bidder
const DefaultCompanyName = "FMEG Solutions Inc."

// ProposalService drafts the RFP response document
type ProposalService struct {
	llm    domain.ChatCompleter
	logger *zap.Logger
}

// NewProposalService creates a new proposal service
func NewProposalService(llm domain.ChatCompleter, logger *zap.Logger) *ProposalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProposalService{llm: llm, logger: logger}
}

// Generate returns the model's markdown proposal verbatim
func (s *ProposalService) Generate(ctx context.Context, req *domain.ProposalRequest) (*domain.ProposalResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Summary) == "" {
		return nil, fmt.Errorf("%w: summary is required", domain.ErrInvalidRequest)
	}
	if len(req.MatchedProducts) == 0 {
		return nil, fmt.Errorf("%w: matchedProducts must contain at least one product", domain.ErrInvalidRequest)
	}

	companyName := strings.TrimSpace(req.CompanyName)
	if companyName == "" {
		companyName = DefaultCompanyName
	}

	prompt, err := buildProposalPrompt(req, companyName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("generating proposal",
		zap.String("company", companyName),
		zap.Int("products", len(req.MatchedProducts)),
		zap.Int("pricingLines", len(req.Pricing)))

	proposal, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("proposal generation completed", zap.Int("length", len(proposal)))

	return &domain.ProposalResponse{Proposal: proposal}, nil
}
