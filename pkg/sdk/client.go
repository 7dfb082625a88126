package cinephile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cinephile-labs/cinephile/internal/db"
	dbRedis "github.com/cinephile-labs/cinephile/internal/db/redis"
	"github.com/cinephile-labs/cinephile/internal/domain"
	domchallenge "github.com/cinephile-labs/cinephile/internal/domain/challenge"
	"github.com/cinephile-labs/cinephile/internal/domain/discover"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
	challengerepo "github.com/cinephile-labs/cinephile/internal/repository/challenge"
	"github.com/cinephile-labs/cinephile/internal/repository/embcache"
	movierepo "github.com/cinephile-labs/cinephile/internal/repository/movie"
	openaiTransport "github.com/cinephile-labs/cinephile/internal/transport/openai"
	"github.com/cinephile-labs/cinephile/internal/transport/tmdb"
	availabilityuc "github.com/cinephile-labs/cinephile/internal/usecase/availability"
	challengeuc "github.com/cinephile-labs/cinephile/internal/usecase/challenge"
	healthuc "github.com/cinephile-labs/cinephile/internal/usecase/health"
	mooduc "github.com/cinephile-labs/cinephile/internal/usecase/mood"
	searchuc "github.com/cinephile-labs/cinephile/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the services.
type searchUseCase interface {
	Search(ctx context.Context, query string, limit int) ([]dommovie.Recommendation, error)
}

type availabilityUseCase interface {
	Filter(ctx context.Context, candidates []dommovie.Recommendation, cohort [][]string) []dommovie.Recommendation
}

type moodUseCase interface {
	Translate(ctx context.Context, moodText string) discover.Filters
}

type challengeUseCase interface {
	Create(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error)
	Update(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error)
	Get(ctx context.Context, id string) (domchallenge.Challenge, error)
	List(ctx context.Context, activeOnly bool) ([]domchallenge.Challenge, error)
	Delete(ctx context.Context, id string) error
	EvaluateMovies(ctx context.Context, challengeID string, movieIDs []int64) (challengeuc.Evaluation, error)
}

type movieReader interface {
	Get(ctx context.Context, tmdbID int64) (dommovie.Movie, error)
	Count(ctx context.Context) (int, error)
}

// Client is the cinephile SDK entry point.
type Client struct {
	store        db.Store
	searchSvc    searchUseCase
	availSvc     availabilityUseCase
	moodSvc      moodUseCase
	challengeSvc challengeUseCase
	movies       movieReader
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a cinephile Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("cinephile: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("cinephile: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("cinephile: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(ctx, store, cfg, obs)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	vectorDim := cfg.vectorDimensions
	if vectorDim <= 0 {
		vectorDim = 768
	}

	movieRepo := movierepo.New(store, cfg.keyPrefix, vectorDim)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		movieRepo = movieRepo.WithHNSW(movierepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := movieRepo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("cinephile: ensure vector index: %w", err)
	}
	challengeRepo := challengerepo.New(store, cfg.keyPrefix)

	embedder := buildEmbedder(cfg, store)
	searchSvc := searchuc.New(movieRepo, embedder, cfg.defaultLimit, cfg.maxLimit)

	var availSvc availabilityUseCase
	if cfg.tmdbToken != "" {
		tmdbClient := tmdb.NewClient(&tmdb.Config{
			AccessToken: cfg.tmdbToken,
			Logger:      zap.NewNop(),
		})
		availSvc = availabilityuc.New(tmdbClient, cfg.tmdbCountry, 0)
	}

	var completion mooduc.CompletionClient
	if cfg.completionAPIKey != "" {
		completion = openaiTransport.NewCompletionClient(&openaiTransport.CompletionConfig{
			APIKey:   cfg.completionAPIKey,
			BaseURL:  cfg.completionBaseURL,
			Model:    cfg.completionModel,
			Provider: "openai",
			Logger:   zap.NewNop(),
		})
	}
	moodSvc := mooduc.New(completion, 0)

	challengeSvc := challengeuc.New(challengeRepo, movieRepo)
	healthSvc := healthuc.New(store, nil, movieRepo)

	return &Client{
		store:        store,
		searchSvc:    searchSvc,
		availSvc:     availSvc,
		moodSvc:      moodSvc,
		challengeSvc: challengeSvc,
		movies:       movieRepo,
		healthSvc:    healthSvc,
		obs:          obs,
	}, nil
}

// buildEmbedder picks the configured embedding provider: a custom Embedder,
// an OpenAI-compatible one wrapped in the cache, or the erroring noop.
func buildEmbedder(cfg *clientConfig, store db.Store) domain.Embedder {
	var embedder domain.Embedder
	switch {
	case cfg.embedder != nil:
		embedder = &embedderAdapter{inner: cfg.embedder}
	case cfg.embeddingAPIKey != "":
		base := openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.embeddingAPIKey,
			BaseURL:    cfg.embeddingBaseURL,
			Model:      cfg.embeddingModel,
			Dimensions: cfg.vectorDimensions,
			Provider:   "openai",
			Logger:     zap.NewNop(),
		})
		embedder = embcache.New(base, store, cfg.keyPrefix, cfg.embeddingModel, nil, zap.NewNop())
	default:
		return noopEmbedder{}
	}

	if cfg.queryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.queryInstruction)
	}
	return embedder
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Recommend retrieves the movies nearest to the query. A non-empty cohort
// (one provider list per group member) filters candidates down to those
// streamable by the group; an empty cohort skips the filter.
func (c *Client) Recommend(
	ctx context.Context, query string, cohort [][]string, limit int,
) (recs []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	candidates, err := c.searchSvc.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	if len(cohort) > 0 && c.availSvc != nil {
		candidates = c.availSvc.Filter(ctx, candidates, cohort)
	}

	recs = make([]Recommendation, 0, len(candidates))
	for i := range candidates {
		recs = append(recs, recommendationFromDomain(&candidates[i]))
	}
	return recs, nil
}

// MoodFilters translates free-text mood into discovery filters. Total: every
// input yields at least the default sort.
func (c *Client) MoodFilters(ctx context.Context, mood string) MoodFilters {
	start := time.Now()
	defer func() { c.obs.observe("mood_filters", start, nil) }()

	return MoodFilters(c.moodSvc.Translate(ctx, mood))
}

// Challenges returns the challenge management service.
func (c *Client) Challenges() *ChallengeService {
	return &ChallengeService{svc: c.challengeSvc, obs: c.obs}
}

// Movies returns the catalog read service.
func (c *Client) Movies() *MovieService {
	return &MovieService{movies: c.movies, obs: c.obs}
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"cinephile: embedder not configured (use WithEmbedder or WithOpenAIEmbeddings)",
	)
}
