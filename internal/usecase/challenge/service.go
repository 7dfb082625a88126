// Package challenge manages watch challenges and evaluates stored movies
// against their rules.
package challenge

import (
	"context"
	"fmt"

	domchallenge "github.com/cinephile-labs/cinephile/internal/domain/challenge"
)

// Verdict is one movie's evaluation against a challenge.
type Verdict struct {
	TMDBID  int64  `json:"tmdb_id"`
	Title   string `json:"title"`
	Matches bool   `json:"matches"`
}

// Evaluation is the outcome of evaluating a set of movies against a challenge.
type Evaluation struct {
	ChallengeID  string    `json:"challenge_id"`
	Verdicts     []Verdict `json:"verdicts"`
	MatchedCount int       `json:"matched_count"`
	Completed    bool      `json:"completed"`
}

// Service exposes challenge lifecycle and evaluation operations.
type Service struct {
	repo   Repository
	movies MovieReader
}

// New creates a challenge service.
func New(repo Repository, movies MovieReader) *Service {
	return &Service{repo: repo, movies: movies}
}

// Create stores a new challenge.
func (s *Service) Create(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error) {
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return domchallenge.Challenge{}, fmt.Errorf("create challenge: %w", err)
	}
	return created, nil
}

// Update replaces an existing challenge.
func (s *Service) Update(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error) {
	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return domchallenge.Challenge{}, fmt.Errorf("update challenge: %w", err)
	}
	return updated, nil
}

// Get returns a challenge by ID.
func (s *Service) Get(ctx context.Context, id string) (domchallenge.Challenge, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domchallenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	return c, nil
}

// List returns stored challenges, optionally only the active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]domchallenge.Challenge, error) {
	challenges, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return challenges, nil
}

// Delete removes a challenge by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}

// EvaluateMovies loads the given movies and checks each against the
// challenge's rules. Movies not in the catalog are silently skipped.
func (s *Service) EvaluateMovies(ctx context.Context, challengeID string, movieIDs []int64) (Evaluation, error) {
	c, err := s.repo.Get(ctx, challengeID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("get challenge: %w", err)
	}

	movies, err := s.movies.GetMulti(ctx, movieIDs)
	if err != nil {
		return Evaluation{}, fmt.Errorf("load movies: %w", err)
	}

	eval := Evaluation{
		ChallengeID: c.ID,
		Verdicts:    make([]Verdict, 0, len(movies)),
	}
	for i := range movies {
		m := &movies[i]
		matches := c.Matches(m.Attributes())
		if matches {
			eval.MatchedCount++
		}
		eval.Verdicts = append(eval.Verdicts, Verdict{
			TMDBID:  m.TMDBID(),
			Title:   m.Title(),
			Matches: matches,
		})
	}
	eval.Completed = eval.MatchedCount >= c.TargetCount

	return eval, nil
}
