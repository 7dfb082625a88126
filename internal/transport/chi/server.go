// Package chi exposes the recommendation API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cinephile-labs/cinephile/internal/domain"
	domchallenge "github.com/cinephile-labs/cinephile/internal/domain/challenge"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
	availabilityuc "github.com/cinephile-labs/cinephile/internal/usecase/availability"
	challengeuc "github.com/cinephile-labs/cinephile/internal/usecase/challenge"
	healthuc "github.com/cinephile-labs/cinephile/internal/usecase/health"
	mooduc "github.com/cinephile-labs/cinephile/internal/usecase/mood"
	searchuc "github.com/cinephile-labs/cinephile/internal/usecase/search"
)

// Error codes returned in the JSON error body.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeEmptyQuery       = "empty_query"
	CodeNotFound         = "not_found"
	CodeUpstreamError    = "upstream_error"
	CodeUnauthorized     = "unauthorized"
	CodeInternalError    = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MovieReader loads stored movies by TMDB id.
type MovieReader interface {
	Get(ctx context.Context, tmdbID int64) (dommovie.Movie, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use case services into chi handlers.
type Server struct {
	search        *searchuc.Service
	availability  *availabilityuc.Service
	mood          *mooduc.Service
	challenges    *challengeuc.Service
	movies        MovieReader
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	availability *availabilityuc.Service,
	mood *mooduc.Service,
	challenges *challengeuc.Service,
	movies MovieReader,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:       search,
		availability: availability,
		mood:         mood,
		challenges:   challenges,
		movies:       movies,
		health:       health,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, CodeEmptyQuery),
		sentinelHandler(domain.ErrInvalidChallenge, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidMovie, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrMovieNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrChallengeNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeUpstreamError),
		sentinelHandler(domain.ErrMetadataProviderError, http.StatusBadGateway, CodeUpstreamError),
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/mood/filters", s.handleMoodFilters)
		r.Route("/challenges", func(r chi.Router) {
			r.Post("/", s.handleCreateChallenge)
			r.Get("/", s.handleListChallenges)
			r.Get("/{id}", s.handleGetChallenge)
			r.Put("/{id}", s.handleUpdateChallenge)
			r.Delete("/{id}", s.handleDeleteChallenge)
			r.Post("/{id}/evaluate", s.handleEvaluateChallenge)
		})
		r.Get("/movies/{id}", s.handleGetMovie)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// SearchRequest is the body of POST /api/v1/search. Providers holds one
// provider-name list per cohort member; when empty, candidates are returned
// without availability filtering.
type SearchRequest struct {
	Query     string     `json:"query"`
	Providers [][]string `json:"providers"`
	Limit     int        `json:"limit,omitempty"`
}

// RecommendationResponse is one ranked movie in the search response.
type RecommendationResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	VoteAverage float64  `json:"vote_average"`
	Genres      []string `json:"genres,omitempty"`
	Score       float64  `json:"score"`
	AvailableOn []string `json:"available_on"`
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	candidates, err := s.search.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	// availability is nil when no metadata provider credential is configured;
	// candidates then pass through unfiltered.
	if len(req.Providers) > 0 && s.availability != nil {
		candidates = s.availability.Filter(r.Context(), candidates, req.Providers)
	}

	items := make([]RecommendationResponse, 0, len(candidates))
	for i := range candidates {
		items = append(items, recommendationToResponse(&candidates[i]))
	}
	writeJSON(w, http.StatusOK, items)
}

// MoodRequest is the body of POST /api/v1/mood/filters.
type MoodRequest struct {
	Mood string `json:"mood"`
}

// handleMoodFilters handles POST /api/v1/mood/filters. Translation is total,
// so the handler only fails on a malformed body.
func (s *Server) handleMoodFilters(w http.ResponseWriter, r *http.Request) {
	var req MoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.mood.Translate(r.Context(), req.Mood))
}

// handleCreateChallenge handles POST /api/v1/challenges.
func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	var c domchallenge.Challenge
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.challenges.Create(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleListChallenges handles GET /api/v1/challenges. ?active=true keeps
// only the active ones.
func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	challenges, err := s.challenges.List(r.Context(), activeOnly)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if challenges == nil {
		challenges = []domchallenge.Challenge{}
	}
	writeJSON(w, http.StatusOK, challenges)
}

// handleGetChallenge handles GET /api/v1/challenges/{id}.
func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	c, err := s.challenges.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleUpdateChallenge handles PUT /api/v1/challenges/{id}.
func (s *Server) handleUpdateChallenge(w http.ResponseWriter, r *http.Request) {
	var c domchallenge.Challenge
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	c.ID = chi.URLParam(r, "id")

	updated, err := s.challenges.Update(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteChallenge handles DELETE /api/v1/challenges/{id}.
func (s *Server) handleDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	if err := s.challenges.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EvaluateRequest is the body of POST /api/v1/challenges/{id}/evaluate.
type EvaluateRequest struct {
	MovieIDs []int64 `json:"movie_ids"`
}

// handleEvaluateChallenge handles POST /api/v1/challenges/{id}/evaluate.
func (s *Server) handleEvaluateChallenge(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	eval, err := s.challenges.EvaluateMovies(r.Context(), chi.URLParam(r, "id"), req.MovieIDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

// MovieResponse is a stored catalog movie.
type MovieResponse struct {
	TMDBID        int64    `json:"tmdb_id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title,omitempty"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"release_date,omitempty"`
	PosterPath    string   `json:"poster_path,omitempty"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int64    `json:"vote_count"`
	Popularity    float64  `json:"popularity"`
	Genres        []string `json:"genres,omitempty"`
	Ready         bool     `json:"is_ready"`
}

// handleGetMovie handles GET /api/v1/movies/{id}.
func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "movie id must be a positive integer")
		return
	}

	m, err := s.movies.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movieToResponse(&m))
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	CatalogSize int               `json:"catalog_size"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:      string(report.Status),
		Checks:      checks,
		CatalogSize: report.CatalogSize,
	})
}

func recommendationToResponse(rec *dommovie.Recommendation) RecommendationResponse {
	availableOn := rec.AvailableOn
	if availableOn == nil {
		availableOn = []string{}
	}
	m := &rec.Movie
	return RecommendationResponse{
		ID:          m.TMDBID(),
		Title:       m.Title(),
		Overview:    m.Overview(),
		ReleaseDate: m.ReleaseDate(),
		PosterPath:  m.PosterPath(),
		VoteAverage: m.VoteAverage(),
		Genres:      m.Genres(),
		Score:       rec.Score,
		AvailableOn: availableOn,
	}
}

func movieToResponse(m *dommovie.Movie) MovieResponse {
	return MovieResponse{
		TMDBID:        m.TMDBID(),
		Title:         m.Title(),
		OriginalTitle: m.OriginalTitle(),
		Overview:      m.Overview(),
		ReleaseDate:   m.ReleaseDate(),
		PosterPath:    m.PosterPath(),
		VoteAverage:   m.VoteAverage(),
		VoteCount:     m.VoteCount(),
		Popularity:    m.Popularity(),
		Genres:        m.Genres(),
		Ready:         m.Ready(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidChallenge,
		domain.ErrInvalidMovie,
		domain.ErrVectorDimMismatch,
		domain.ErrMovieNotFound,
		domain.ErrChallengeNotFound,
		domain.ErrAlreadyExists,
		domain.ErrEmbeddingProviderError,
		domain.ErrMetadataProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
