// Command ingest builds the movie catalog: a genre by era TMDB discover
// matrix plus a world-cinema pass, each movie embedded and stored ready for
// similarity search. Safe to re-run, already stored movies are skipped.
package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cinephile-labs/cinephile/internal/config"
	"github.com/cinephile-labs/cinephile/internal/db"
	dbRedis "github.com/cinephile-labs/cinephile/internal/db/redis"
	"github.com/cinephile-labs/cinephile/internal/domain"
	"github.com/cinephile-labs/cinephile/internal/domain/discover"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
	logpkg "github.com/cinephile-labs/cinephile/internal/logger"
	"github.com/cinephile-labs/cinephile/internal/metrics"
	"github.com/cinephile-labs/cinephile/internal/repository/embcache"
	movierepo "github.com/cinephile-labs/cinephile/internal/repository/movie"
	openaiTransport "github.com/cinephile-labs/cinephile/internal/transport/openai"
	"github.com/cinephile-labs/cinephile/internal/transport/tmdb"
)

const (
	// moviesPerSlot caps each genre by era slot at one discover page.
	moviesPerSlot = 20
	// worldCinemaPages is the number of non-English discover pages to pull.
	worldCinemaPages = 5
	// embedThrottle spaces embedding calls to stay under provider rate limits.
	embedThrottle = 100 * time.Millisecond
)

// eras covers the catalog from the golden age to today.
var eras = [][2]string{
	{"1950-01-01", "1959-12-31"},
	{"1960-01-01", "1969-12-31"},
	{"1970-01-01", "1979-12-31"},
	{"1980-01-01", "1989-12-31"},
	{"1990-01-01", "1999-12-31"},
	{"2000-01-01", "2009-12-31"},
	{"2010-01-01", "2019-12-31"},
	{"2020-01-01", "2025-12-31"},
}

func main() {
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if cfg.TMDB.AccessToken == "" {
		logger.Fatal("TMDB access token is required for ingestion")
	}
	if cfg.Embedding.APIKey == "" {
		logger.Fatal("Embedding API key is required for ingestion")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterProviderMetrics()
	metrics.RegisterTMDBMetrics()

	repo := movierepo.New(store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions).
		WithHNSW(movierepo.HNSWConfig{
			M:           cfg.Search.HNSWM,
			EFConstruct: cfg.Search.HNSWEFConstruct,
		})
	if err := repo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}

	client := tmdb.NewClient(&tmdb.Config{
		BaseURL:     cfg.TMDB.BaseURL,
		AccessToken: cfg.TMDB.AccessToken,
		Language:    cfg.TMDB.Language,
		Timeout:     time.Duration(cfg.TMDB.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	embedder := buildDocumentEmbedder(cfg, store, logger)

	ing := &ingester{
		repo:     repo,
		client:   client,
		embedder: embedder,
		logger:   logger,
	}

	logger.Info("Starting catalog ingestion")
	total := ing.run(ctx)
	logger.Info("Ingestion finished", zap.Int("movies_added", total))
}

type ingester struct {
	repo     *movierepo.Repo
	client   *tmdb.Client
	embedder domain.Embedder
	logger   *zap.Logger
}

// run executes both ingestion phases. Upstream failures are logged and the
// affected slot skipped, a single bad response never aborts the run.
func (g *ingester) run(ctx context.Context) int {
	total := 0

	// Phase 1: genre by era matrix with a popularity and quality floor.
	for _, genre := range discover.GenreNames() {
		genreID := discover.GenreIDs[genre]
		for _, era := range eras {
			filters := discover.Filters{
				discover.KeyGenres:         strconv.Itoa(genreID),
				discover.KeyReleasedAfter:  era[0],
				discover.KeyReleasedBefore: era[1],
				"vote_count.gte":           "200",
				"vote_average.gte":         "6.0",
				discover.KeySortBy:         discover.SortPopularityDesc,
			}

			records, err := g.client.Discover(ctx, filters, 1)
			if err != nil {
				g.logger.Warn("Discover slot failed, skipping",
					zap.String("genre", genre),
					zap.String("era", era[0][:4]),
					zap.Error(err))
				continue
			}
			if len(records) > moviesPerSlot {
				records = records[:moviesPerSlot]
			}

			added := g.ingestRecords(ctx, records, genre+" "+era[0][:4])
			total += added
		}
	}

	// Phase 2: world cinema. Non-English pictures with very high ratings,
	// most voted first so the classics come up before the long tail.
	for page := 1; page <= worldCinemaPages; page++ {
		filters := discover.Filters{
			"without_original_language": "en",
			"vote_average.gte":          "7.5",
			"vote_count.gte":            "500",
			discover.KeySortBy:          "vote_count.desc",
		}

		records, err := g.client.Discover(ctx, filters, page)
		if err != nil {
			g.logger.Warn("World cinema page failed, skipping",
				zap.Int("page", page),
				zap.Error(err))
			continue
		}
		total += g.ingestRecords(ctx, records, "World")
	}

	return total
}

// ingestRecords embeds and stores the records that pass the data-quality
// filters. Returns the number of movies added.
func (g *ingester) ingestRecords(ctx context.Context, records []tmdb.MovieRecord, sourceTag string) int {
	added := 0
	for i := range records {
		rec := &records[i]

		exists, err := g.repo.Exists(ctx, rec.ID)
		if err != nil {
			g.logger.Warn("Existence check failed, skipping movie",
				zap.Int64("tmdb_id", rec.ID), zap.Error(err))
			continue
		}
		if exists {
			continue
		}
		if rec.Overview == "" {
			continue
		}

		text := embedText(rec)
		result, err := g.embedder.Embed(ctx, text)
		if err != nil {
			g.logger.Warn("Embedding failed, skipping movie",
				zap.Int64("tmdb_id", rec.ID),
				zap.String("title", rec.Title),
				zap.Error(err))
			continue
		}

		movie, err := dommovie.New(
			rec.ID, rec.Title, rec.OriginalTitle, rec.Overview,
			rec.ReleaseDate, rec.PosterPath,
			rec.VoteAverage, rec.VoteCount, rec.Popularity,
			discover.GenreNamesFor(rec.GenreIDs),
		)
		if err != nil {
			g.logger.Warn("Invalid movie record, skipping",
				zap.Int64("tmdb_id", rec.ID), zap.Error(err))
			continue
		}
		ready := movie.WithEmbedding(result.Embedding)

		if _, err := g.repo.Upsert(ctx, &ready); err != nil {
			g.logger.Warn("Store failed, skipping movie",
				zap.Int64("tmdb_id", rec.ID), zap.Error(err))
			continue
		}

		added++
		g.logger.Info("Movie ingested",
			zap.String("source", sourceTag),
			zap.Int64("tmdb_id", rec.ID),
			zap.String("title", rec.Title))
		time.Sleep(embedThrottle)
	}
	return added
}

// embedText builds the semantic text for retrieval. Year and title enrich
// the synopsis so date and name queries rank correctly.
func embedText(rec *tmdb.MovieRecord) string {
	year := "Inconnue"
	if len(rec.ReleaseDate) >= 4 {
		year = rec.ReleaseDate[:4]
	}
	return fmt.Sprintf("Film de %s. Titre: %s. Synopsis: %s", year, rec.Title, rec.Overview)
}

// buildDocumentEmbedder assembles the ingestion-side embedder chain with the
// document instruction outermost.
func buildDocumentEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	var embedder domain.Embedder = embcache.New(base, store, cfg.Storage.KeyPrefix, cfg.Embedding.Model,
		metrics.EmbeddingCacheTotal, logger)

	if cfg.Embedding.DocumentInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.Embedding.DocumentInstruction)
	}
	return embedder
}
