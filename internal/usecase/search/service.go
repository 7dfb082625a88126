// Package search ranks catalog movies by semantic similarity to a free-text query.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cinephile-labs/cinephile/internal/domain"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
	"github.com/cinephile-labs/cinephile/internal/logger"
)

// Service vectorizes queries and retrieves the nearest movies.
type Service struct {
	repo         Repository
	embed        Embedder
	defaultLimit int
	maxLimit     int
}

// New creates a search service. defaultLimit applies when the caller passes
// limit <= 0, maxLimit caps any request.
func New(repo Repository, embed Embedder, defaultLimit, maxLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 50
	}
	return &Service{repo: repo, embed: embed, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Search retrieves the movies nearest to the query, best match first.
// A failing embedding provider degrades to an empty result rather than an
// error so the recommendation flow stays up while the provider is down.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]dommovie.Recommendation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Warn("Embedding provider unavailable, returning empty result",
			zap.Error(err))
		return nil, nil
	}

	recs, err := s.repo.SearchNearest(ctx, embResult.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search nearest: %w", err)
	}
	return recs, nil
}
