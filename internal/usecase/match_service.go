package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rfpdesk/backend/internal/domain"
	"github.com/rfpdesk/backend/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// DefaultSensitivity applies when the caller omits sensitivity
const DefaultSensitivity = 0.7

// MatchServiceConfig holds configuration for the match service
type MatchServiceConfig struct {
	DefaultSensitivity float64
	FilterUnknownSKUs  bool
}

// MatchService matches RFP requirements against the product catalog
type MatchService struct {
	llm     domain.ChatCompleter
	catalog *domain.Catalog
	config  MatchServiceConfig
	logger  *zap.Logger
}

// NewMatchService creates a new match service bound to an immutable catalog
func NewMatchService(llm domain.ChatCompleter, catalog *domain.Catalog, config MatchServiceConfig, logger *zap.Logger) *MatchService {
	if config.DefaultSensitivity < 0 || config.DefaultSensitivity > 1 {
		config.DefaultSensitivity = DefaultSensitivity
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchService{
		llm:     llm,
		catalog: catalog,
		config:  config,
		logger:  logger,
	}
}

// Match asks the model to rank catalog products against the requirements.
// Results are sorted by matchScore descending and returned with the catalog.
func (s *MatchService) Match(ctx context.Context, req *domain.MatchRequest) (*domain.MatchResponse, error) {
	if req == nil || strings.TrimSpace(req.Requirements) == "" {
		return nil, fmt.Errorf("%w: requirements is required", domain.ErrInvalidRequest)
	}

	sensitivity := s.config.DefaultSensitivity
	if req.Sensitivity != nil {
		sensitivity = *req.Sensitivity
		if sensitivity < 0 || sensitivity > 1 {
			return nil, fmt.Errorf("%w: sensitivity must be between 0 and 1", domain.ErrInvalidRequest)
		}
	}

	prompt, err := buildMatchPrompt(req.Requirements, sensitivity, s.catalog)
	if err != nil {
		return nil, err
	}

	s.logger.Info("processing product matching", zap.Float64("sensitivity", sensitivity))

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	matches, err := parseMatchResults(text)
	if err != nil {
		s.logger.Error("unparseable match response", zap.Error(err), zap.String("completion", text))
		return nil, err
	}

	if s.config.FilterUnknownSKUs {
		matches = s.dropUnknownSKUs(matches)
	}

	sortByScore(matches)

	s.logger.Info("product matching completed", zap.Int("matches", len(matches)))

	return &domain.MatchResponse{
		Matches: matches,
		Catalog: s.catalog.Entries(),
	}, nil
}

// dropUnknownSKUs removes results whose SKU is not in the catalog
func (s *MatchService) dropUnknownSKUs(matches []domain.MatchResult) []domain.MatchResult {
	kept := matches[:0]
	for _, m := range matches {
		if !s.catalog.Contains(m.SKU) {
			s.logger.Warn("dropping match for unknown sku", zap.String("sku", m.SKU))
			metrics.UnknownSKUsDropped.Inc()
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// sortByScore orders matches by matchScore descending, keeping the model's
// order for ties
func sortByScore(matches []domain.MatchResult) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
}
