// Package movie implements the movie catalog repository over the Redis store.
package movie

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cinephile-labs/cinephile/internal/db"
	"github.com/cinephile-labs/cinephile/internal/domain"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
)

// readyPrefilter restricts KNN candidates to vectorized movies.
const readyPrefilter = "@is_ready:[1 1]"

// store is the consumer interface for movie storage (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// HNSWConfig holds vector index tuning parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo stores movies as Redis hashes under an FT vector index.
type Repo struct {
	store     store
	keyPrefix string
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a movie repository. keyPrefix namespaces all keys (e.g. "cine:").
func New(s store, keyPrefix string, vectorDim int) *Repo {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	return &Repo{store: s, keyPrefix: keyPrefix, vectorDim: vectorDim}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// EnsureIndex creates the movie vector index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(name).
		Prefix(r.movieKeyPrefix()).
		Numeric(fieldReady).
		Numeric(fieldVoteAverage).
		Numeric(fieldVoteCount).
		Numeric(fieldPopularity).
		TagWithOpts(fieldGenres, ",", false).
		Vector(fieldEmbedding, r.vectorDim, db.VectorHNSW, db.DistanceCosine).
		HNSW(r.hnsw.M, r.hnsw.EFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && err != db.ErrIndexExists {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// Upsert stores a movie. Returns true if the record did not exist before.
func (r *Repo) Upsert(ctx context.Context, m *dommovie.Movie) (bool, error) {
	if len(m.Embedding()) > 0 && r.vectorDim > 0 && len(m.Embedding()) != r.vectorDim {
		return false, fmt.Errorf(
			"embedding has %d dimensions, index expects %d: %w",
			len(m.Embedding()), r.vectorDim, domain.ErrVectorDimMismatch,
		)
	}

	key := r.movieKey(m.TMDBID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(m)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	return !exists, nil
}

// Get returns a movie by its TMDB identifier.
func (r *Repo) Get(ctx context.Context, tmdbID int64) (dommovie.Movie, error) {
	key := r.movieKey(tmdbID)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return dommovie.Movie{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return dommovie.Movie{}, domain.ErrMovieNotFound
	}
	return parseHashFields(fields), nil
}

// GetMulti returns movies for the given TMDB identifiers, skipping missing ones.
// Output preserves input order.
func (r *Repo) GetMulti(ctx context.Context, tmdbIDs []int64) ([]dommovie.Movie, error) {
	if len(tmdbIDs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(tmdbIDs))
	for i, id := range tmdbIDs {
		keys[i] = r.movieKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	movies := make([]dommovie.Movie, 0, len(maps))
	for _, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		movies = append(movies, parseHashFields(fields))
	}
	return movies, nil
}

// Exists reports whether a movie is already stored.
func (r *Repo) Exists(ctx context.Context, tmdbID int64) (bool, error) {
	ok, err := r.store.Exists(ctx, r.movieKey(tmdbID))
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}
	return ok, nil
}

// SearchNearest ranks vectorized movies by cosine distance to the query
// vector, nearest first, returning at most limit candidates.
func (r *Repo) SearchNearest(ctx context.Context, vector []float32, limit int) ([]dommovie.Recommendation, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Prefilter:    readyPrefilter,
		Vector:       vector,
		K:            limit,
		ReturnFields: metadataFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	recs := make([]dommovie.Recommendation, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		m := parseHashFields(entry.Fields)
		recs = append(recs, dommovie.Recommendation{Movie: m, Score: entry.Score})
	}
	return recs, nil
}

// Count returns the number of stored movies.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "movies:idx"
}

func (r *Repo) movieKeyPrefix() string {
	return r.keyPrefix + "movie:"
}

func (r *Repo) movieKey(tmdbID int64) string {
	return r.movieKeyPrefix() + strconv.FormatInt(tmdbID, 10)
}
