package cinephile

import (
	"context"

	domchallenge "github.com/cinephile-labs/cinephile/internal/domain/challenge"
	"github.com/cinephile-labs/cinephile/internal/domain/discover"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
	challengeuc "github.com/cinephile-labs/cinephile/internal/usecase/challenge"
	healthuc "github.com/cinephile-labs/cinephile/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, query string, limit int) ([]dommovie.Recommendation, error)
}

func (m *mockSearchUC) Search(ctx context.Context, query string, limit int) ([]dommovie.Recommendation, error) {
	return m.searchFn(ctx, query, limit)
}

// --- availabilityUseCase mock ---

type mockAvailabilityUC struct {
	filterFn func(ctx context.Context, candidates []dommovie.Recommendation, cohort [][]string) []dommovie.Recommendation
}

func (m *mockAvailabilityUC) Filter(
	ctx context.Context, candidates []dommovie.Recommendation, cohort [][]string,
) []dommovie.Recommendation {
	return m.filterFn(ctx, candidates, cohort)
}

// --- moodUseCase mock ---

type mockMoodUC struct {
	translateFn func(ctx context.Context, moodText string) discover.Filters
}

func (m *mockMoodUC) Translate(ctx context.Context, moodText string) discover.Filters {
	return m.translateFn(ctx, moodText)
}

// --- challengeUseCase mock ---

type mockChallengeUC struct {
	createFn   func(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error)
	updateFn   func(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error)
	getFn      func(ctx context.Context, id string) (domchallenge.Challenge, error)
	listFn     func(ctx context.Context, activeOnly bool) ([]domchallenge.Challenge, error)
	deleteFn   func(ctx context.Context, id string) error
	evaluateFn func(ctx context.Context, challengeID string, movieIDs []int64) (challengeuc.Evaluation, error)
}

func (m *mockChallengeUC) Create(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error) {
	return m.createFn(ctx, c)
}

func (m *mockChallengeUC) Update(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error) {
	return m.updateFn(ctx, c)
}

func (m *mockChallengeUC) Get(ctx context.Context, id string) (domchallenge.Challenge, error) {
	return m.getFn(ctx, id)
}

func (m *mockChallengeUC) List(ctx context.Context, activeOnly bool) ([]domchallenge.Challenge, error) {
	return m.listFn(ctx, activeOnly)
}

func (m *mockChallengeUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockChallengeUC) EvaluateMovies(
	ctx context.Context, challengeID string, movieIDs []int64,
) (challengeuc.Evaluation, error) {
	return m.evaluateFn(ctx, challengeID, movieIDs)
}

// --- movieReader mock ---

type mockMovieReader struct {
	getFn   func(ctx context.Context, tmdbID int64) (dommovie.Movie, error)
	countFn func(ctx context.Context) (int, error)
}

func (m *mockMovieReader) Get(ctx context.Context, tmdbID int64) (dommovie.Movie, error) {
	return m.getFn(ctx, tmdbID)
}

func (m *mockMovieReader) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(
	searchSvc searchUseCase,
	availSvc availabilityUseCase,
	moodSvc moodUseCase,
	challengeSvc challengeUseCase,
	movies movieReader,
) *Client {
	return &Client{
		searchSvc:    searchSvc,
		availSvc:     availSvc,
		moodSvc:      moodSvc,
		challengeSvc: challengeSvc,
		movies:       movies,
	}
}
