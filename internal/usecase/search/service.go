package search

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/marovi/company-search/internal/domain"
)

// Service orchestrates a search submission and owns the session result
// state. Submissions are serialized: each runs to completion (or failure)
// before the next starts, and there is no cancellation of an in-flight
// search.
type Service struct {
	embed   Embedder
	gateway Gateway
	logger  *zap.Logger

	mu     sync.Mutex
	result domain.SessionResult
}

// New creates the orchestrator with no search performed yet.
func New(embed Embedder, gateway Gateway, logger *zap.Logger) *Service {
	return &Service{
		embed:   embed,
		gateway: gateway,
		logger:  logger,
		result:  domain.UnsetResult(),
	}
}

// Search runs one submission: clear prior state, validate, embed, query.
// Any failure leaves the state Unset so stale results are never shown.
// The returned SessionResult is the new state; the error, when non-nil,
// carries the user-facing failure.
func (s *Service) Search(
	ctx context.Context, description, industriesCSV string, limit, numCandidates int,
) (domain.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Prior results are cleared before anything can fail.
	s.result = domain.UnsetResult()

	req, err := domain.NewSearchRequest(description, industriesCSV, limit, numCandidates)
	if err != nil {
		return s.result, err
	}

	emb, err := s.embed.Embed(ctx, req.Description())
	if err != nil {
		s.logger.Warn("Embedding failed", zap.Error(err))
		return s.result, fmt.Errorf("embed description: %w", err)
	}

	records, err := s.gateway.Search(ctx, emb.Embedding, req.NumCandidates(), req.Limit(), req.Industries())
	if err != nil {
		s.logger.Warn("Vector search failed", zap.Error(err))
		return s.result, fmt.Errorf("search companies: %w", err)
	}

	s.result = domain.CompletedResult(records)

	s.logger.Info("Search completed",
		zap.Int("records", s.result.Count()),
		zap.Int("limit", req.Limit()),
		zap.Int("num_candidates", req.NumCandidates()),
		zap.Strings("industries", req.Industries()),
	)

	return s.result, nil
}

// Current returns a snapshot of the session result state.
func (s *Service) Current() domain.SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
