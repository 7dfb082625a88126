package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cinephile-labs/cinephile/internal/config"
	"github.com/cinephile-labs/cinephile/internal/db"
	dbRedis "github.com/cinephile-labs/cinephile/internal/db/redis"
	"github.com/cinephile-labs/cinephile/internal/domain"
	logpkg "github.com/cinephile-labs/cinephile/internal/logger"
	"github.com/cinephile-labs/cinephile/internal/metrics"
	challengerepo "github.com/cinephile-labs/cinephile/internal/repository/challenge"
	"github.com/cinephile-labs/cinephile/internal/repository/embcache"
	movierepo "github.com/cinephile-labs/cinephile/internal/repository/movie"
	chiTransport "github.com/cinephile-labs/cinephile/internal/transport/chi"
	openaiTransport "github.com/cinephile-labs/cinephile/internal/transport/openai"
	"github.com/cinephile-labs/cinephile/internal/transport/tmdb"
	availabilityuc "github.com/cinephile-labs/cinephile/internal/usecase/availability"
	challengeuc "github.com/cinephile-labs/cinephile/internal/usecase/challenge"
	healthuc "github.com/cinephile-labs/cinephile/internal/usecase/health"
	mooduc "github.com/cinephile-labs/cinephile/internal/usecase/mood"
	searchuc "github.com/cinephile-labs/cinephile/internal/usecase/search"
	"github.com/cinephile-labs/cinephile/internal/version"
)

func main() {
	// Local development reads credentials from .env; absent file is fine.
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

	logger.Info("Starting cinephile API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

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
	logger.Info("Connected to database")

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()
	metrics.RegisterTMDBMetrics()

	// The API only embeds queries; ingestion (cmd/ingest) owns the document path.
	queryEmbedder := buildEmbedder(cfg, cfg.Embedding.QueryInstruction, store, logger)
	logger.Info("Query embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	movieRepo := movierepo.New(store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions).
		WithHNSW(movierepo.HNSWConfig{
			M:           cfg.Search.HNSWM,
			EFConstruct: cfg.Search.HNSWEFConstruct,
		})
	if err := movieRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure vector index", zap.Error(err))
	}
	challengeRepo := challengerepo.New(store, cfg.Storage.KeyPrefix)

	searchSvc := searchuc.New(movieRepo, queryEmbedder, cfg.Search.CandidateLimit, cfg.Search.MaxLimit)

	// Availability filtering needs a metadata provider credential; without it
	// search still works, candidates just skip the provider filter.
	var availSvc *availabilityuc.Service
	if cfg.TMDB.AccessToken != "" {
		tmdbClient := tmdb.NewClient(&tmdb.Config{
			BaseURL:     cfg.TMDB.BaseURL,
			AccessToken: cfg.TMDB.AccessToken,
			Language:    cfg.TMDB.Language,
			Timeout:     time.Duration(cfg.TMDB.TimeoutSec) * time.Second,
			Logger:      logger,
		})
		availSvc = availabilityuc.New(tmdbClient, cfg.TMDB.Country, time.Duration(cfg.TMDB.TimeoutSec)*time.Second)
	} else {
		logger.Warn("TMDB access token not set, availability filtering disabled")
	}

	// The generative mood path needs a completion credential; the keyword
	// fallback inside the service covers the rest.
	var completion mooduc.CompletionClient
	if cfg.Mood.APIKey != "" {
		completion = openaiTransport.NewCompletionClient(&openaiTransport.CompletionConfig{
			APIKey:      cfg.Mood.APIKey,
			BaseURL:     cfg.Mood.BaseURL,
			Model:       cfg.Mood.Model,
			MaxTokens:   cfg.Mood.MaxTokens,
			Temperature: cfg.Mood.Temperature,
			Provider:    "openai",
			Logger:      logger,
		})
	} else {
		logger.Warn("Mood completion key not set, using keyword fallback only")
	}
	moodSvc := mooduc.New(completion, time.Duration(cfg.Mood.TimeoutSec)*time.Second)

	challengeSvc := challengeuc.New(challengeRepo, movieRepo)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(queryEmbedder), movieRepo)

	server := chiTransport.NewServer(searchSvc, availSvc, moodSvc, challengeSvc, movieRepo, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
// The instruction sits outermost so the cache key includes it.
func buildEmbedder(cfg config.Config, instruction string, store db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, cfg.Storage.KeyPrefix, cfg.Embedding.Model,
			metrics.EmbeddingCacheTotal, logger)
	}

	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.IntoContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
