package challenge

import (
	"context"

	domchallenge "github.com/cinephile-labs/cinephile/internal/domain/challenge"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
)

// Repository defines the storage contract for challenges.
type Repository interface {
	Create(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error)
	Update(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error)
	Get(ctx context.Context, id string) (domchallenge.Challenge, error)
	List(ctx context.Context, activeOnly bool) ([]domchallenge.Challenge, error)
	Delete(ctx context.Context, id string) error
}

// MovieReader loads stored movies for rule evaluation.
type MovieReader interface {
	GetMulti(ctx context.Context, tmdbIDs []int64) ([]dommovie.Movie, error)
}
