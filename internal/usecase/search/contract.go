package search

import (
	"context"

	"github.com/cinephile-labs/cinephile/internal/domain"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
)

// Repository defines the storage contract for similarity search.
type Repository interface {
	SearchNearest(ctx context.Context, vector []float32, limit int) ([]dommovie.Recommendation, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
