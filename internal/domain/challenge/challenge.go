// Package challenge holds the declarative challenge aggregate and its rule
// evaluator.
package challenge

import (
	"fmt"
	"time"

	"github.com/cinephile-labs/cinephile/internal/domain"
)

// Type is the challenge mechanic.
type Type string

const (
	// TypeCount requires watching a number of matching movies.
	TypeCount Type = "count"
	// TypeSpecific requires watching one specific movie.
	TypeSpecific Type = "specific"
	// TypeStreak requires consecutive days of activity.
	TypeStreak Type = "streak"
)

// Challenge is an ordered set of rules with a completion target and reward.
// A record satisfies the challenge iff it satisfies every rule (logical AND).
type Challenge struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        Type      `json:"challenge_type"`
	TargetCount int       `json:"target_count"`
	Rules       []Rule    `json:"rules"`
	XPReward    int       `json:"xp_reward"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the challenge definition, rejecting it eagerly rather than
// failing during evaluation.
func (c *Challenge) Validate() error {
	if n := len(c.Title); n < 3 || n > 100 {
		return fmt.Errorf("title must be 3-100 characters, got %d: %w", n, domain.ErrInvalidChallenge)
	}
	if len(c.Description) > 500 {
		return fmt.Errorf("description too long (max 500): %w", domain.ErrInvalidChallenge)
	}
	switch c.Type {
	case TypeCount, TypeSpecific, TypeStreak:
	default:
		return fmt.Errorf("unknown challenge type %q: %w", c.Type, domain.ErrInvalidChallenge)
	}
	if c.TargetCount < 1 {
		return fmt.Errorf("target count must be at least 1, got %d: %w", c.TargetCount, domain.ErrInvalidChallenge)
	}
	if c.XPReward < 0 {
		return fmt.Errorf("xp reward must not be negative, got %d: %w", c.XPReward, domain.ErrInvalidChallenge)
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("at least one rule is required: %w", domain.ErrInvalidChallenge)
	}
	for i, r := range c.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// Matches reports whether the record satisfies every rule of the challenge.
func (c *Challenge) Matches(record map[string]any) bool {
	for _, r := range c.Rules {
		if !Evaluate(record, r) {
			return false
		}
	}
	return true
}
