// Package challenge implements challenge persistence as JSON blobs in the
// Redis store.
package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cinephile-labs/cinephile/internal/db"
	"github.com/cinephile-labs/cinephile/internal/domain"
	domchallenge "github.com/cinephile-labs/cinephile/internal/domain/challenge"
)

// store is the consumer interface for challenge storage (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores challenges as JSON values, one key per challenge.
type Repo struct {
	store     store
	keyPrefix string
	now       func() time.Time
	newID     func() string
}

// New creates a challenge repository. keyPrefix namespaces all keys (e.g. "cine:").
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	return &Repo{
		store:     s,
		keyPrefix: keyPrefix,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Create validates and stores a new challenge, assigning its ID and creation
// time. The input is not mutated.
func (r *Repo) Create(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error) {
	if err := c.Validate(); err != nil {
		return domchallenge.Challenge{}, err
	}

	c.ID = r.newID()
	c.CreatedAt = r.now().UTC()

	if err := r.put(ctx, &c); err != nil {
		return domchallenge.Challenge{}, err
	}
	return c, nil
}

// Update replaces an existing challenge. The stored creation time is kept.
func (r *Repo) Update(ctx context.Context, c domchallenge.Challenge) (domchallenge.Challenge, error) {
	if c.ID == "" {
		return domchallenge.Challenge{}, domain.ErrChallengeNotFound
	}
	if err := c.Validate(); err != nil {
		return domchallenge.Challenge{}, err
	}

	existing, err := r.Get(ctx, c.ID)
	if err != nil {
		return domchallenge.Challenge{}, err
	}
	c.CreatedAt = existing.CreatedAt

	if err := r.put(ctx, &c); err != nil {
		return domchallenge.Challenge{}, err
	}
	return c, nil
}

// Get returns a challenge by ID.
func (r *Repo) Get(ctx context.Context, id string) (domchallenge.Challenge, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domchallenge.Challenge{}, domain.ErrChallengeNotFound
		}
		return domchallenge.Challenge{}, fmt.Errorf("get challenge %s: %w", id, err)
	}

	var c domchallenge.Challenge
	if err := json.Unmarshal(data, &c); err != nil {
		return domchallenge.Challenge{}, fmt.Errorf("decode challenge %s: %w", id, err)
	}
	return c, nil
}

// List returns all stored challenges. When activeOnly is set, inactive
// challenges are filtered out. Results are ordered newest first, ties broken
// by ID for a stable order.
func (r *Repo) List(ctx context.Context, activeOnly bool) ([]domchallenge.Challenge, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"challenge:*")
	if err != nil {
		return nil, fmt.Errorf("scan challenges: %w", err)
	}

	challenges := make([]domchallenge.Challenge, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and read
			}
			return nil, fmt.Errorf("get %s: %w", key, err)
		}

		var c domchallenge.Challenge
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if activeOnly && !c.Active {
			continue
		}
		challenges = append(challenges, c)
	}

	sort.Slice(challenges, func(i, j int) bool {
		if !challenges[i].CreatedAt.Equal(challenges[j].CreatedAt) {
			return challenges[i].CreatedAt.After(challenges[j].CreatedAt)
		}
		return challenges[i].ID < challenges[j].ID
	})
	return challenges, nil
}

// Delete removes a challenge by ID.
func (r *Repo) Delete(ctx context.Context, id string) error {
	exists, err := r.store.Exists(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("check exists %s: %w", id, err)
	}
	if !exists {
		return domain.ErrChallengeNotFound
	}

	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete challenge %s: %w", id, err)
	}
	return nil
}

func (r *Repo) put(ctx context.Context, c *domchallenge.Challenge) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode challenge %s: %w", c.ID, err)
	}
	if err := r.store.Set(ctx, r.key(c.ID), data); err != nil {
		return fmt.Errorf("set challenge %s: %w", c.ID, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "challenge:" + id
}
