package cinephile

import (
	"context"
	"fmt"
	"time"
)

// MovieService reads the stored movie catalog.
type MovieService struct {
	movies movieReader
	obs    *observer
}

// Get returns a stored movie by TMDB id.
func (s *MovieService) Get(ctx context.Context, tmdbID int64) (out Movie, err error) {
	start := time.Now()
	defer func() { s.obs.observe("movie_get", start, err) }()

	m, err := s.movies.Get(ctx, tmdbID)
	if err != nil {
		return Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return movieFromDomain(&m), nil
}

// Count returns the number of movies in the catalog.
func (s *MovieService) Count(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("movie_count", start, err) }()

	n, err = s.movies.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}
