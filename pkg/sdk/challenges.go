package cinephile

import (
	"context"
	"fmt"
	"time"
)

// ChallengeService manages watch challenges.
type ChallengeService struct {
	svc challengeUseCase
	obs *observer
}

// Create stores a new challenge and returns it with its assigned ID.
func (s *ChallengeService) Create(ctx context.Context, c Challenge) (out Challenge, err error) {
	start := time.Now()
	defer func() { s.obs.observe("challenge_create", start, err) }()

	created, err := s.svc.Create(ctx, challengeToDomain(c))
	if err != nil {
		return Challenge{}, fmt.Errorf("create challenge: %w", err)
	}
	return challengeFromDomain(created), nil
}

// Update replaces an existing challenge.
func (s *ChallengeService) Update(ctx context.Context, c Challenge) (out Challenge, err error) {
	start := time.Now()
	defer func() { s.obs.observe("challenge_update", start, err) }()

	updated, err := s.svc.Update(ctx, challengeToDomain(c))
	if err != nil {
		return Challenge{}, fmt.Errorf("update challenge: %w", err)
	}
	return challengeFromDomain(updated), nil
}

// Get returns a challenge by ID.
func (s *ChallengeService) Get(ctx context.Context, id string) (out Challenge, err error) {
	start := time.Now()
	defer func() { s.obs.observe("challenge_get", start, err) }()

	c, err := s.svc.Get(ctx, id)
	if err != nil {
		return Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	return challengeFromDomain(c), nil
}

// List returns stored challenges, newest first. activeOnly keeps only the
// active ones.
func (s *ChallengeService) List(ctx context.Context, activeOnly bool) (out []Challenge, err error) {
	start := time.Now()
	defer func() { s.obs.observe("challenge_list", start, err) }()

	challenges, err := s.svc.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	out = make([]Challenge, len(challenges))
	for i, c := range challenges {
		out[i] = challengeFromDomain(c)
	}
	return out, nil
}

// Delete removes a challenge by ID.
func (s *ChallengeService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("challenge_delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}

// Evaluate checks the given stored movies against a challenge's rules.
// Movies not in the catalog are skipped.
func (s *ChallengeService) Evaluate(ctx context.Context, challengeID string, movieIDs []int64) (out Evaluation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("challenge_evaluate", start, err) }()

	eval, err := s.svc.EvaluateMovies(ctx, challengeID, movieIDs)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluate challenge: %w", err)
	}
	return evaluationFromDomain(eval), nil
}
