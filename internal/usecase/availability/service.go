// Package availability filters recommendation candidates down to movies the
// whole cohort can actually stream.
package availability

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
	"github.com/cinephile-labs/cinephile/internal/logger"
)

const defaultLookupTimeout = 10 * time.Second

// maxConcurrentLookups bounds the provider fan-out per request.
const maxConcurrentLookups = 8

// ProviderSource returns the streaming provider names a movie is available on.
type ProviderSource interface {
	GetProviders(ctx context.Context, movieID int64, country string) ([]string, error)
}

// Service annotates and filters candidates by streaming availability.
type Service struct {
	providers     ProviderSource
	country       string
	lookupTimeout time.Duration
}

// New creates an availability service for the given country (ISO 3166-1).
func New(providers ProviderSource, country string, lookupTimeout time.Duration) *Service {
	if country == "" {
		country = "FR"
	}
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	return &Service{providers: providers, country: country, lookupTimeout: lookupTimeout}
}

// CommonProviders returns the union of all cohort members' providers. One
// subscription in the group is enough to watch that catalog together.
func CommonProviders(cohort [][]string) map[string]struct{} {
	union := make(map[string]struct{})
	for _, providers := range cohort {
		for _, p := range providers {
			union[p] = struct{}{}
		}
	}
	return union
}

// Filter keeps the candidates available on at least one of the cohort's
// providers, annotating each with the sorted intersection. Input order is
// preserved. Individual provider lookups that fail drop only that candidate.
func (s *Service) Filter(ctx context.Context, candidates []dommovie.Recommendation, cohort [][]string) []dommovie.Recommendation {
	union := CommonProviders(cohort)
	if len(union) == 0 {
		return []dommovie.Recommendation{}
	}

	perMovie := make([][]string, len(candidates))
	failed := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, s.lookupTimeout)
			defer cancel()

			providers, err := s.providers.GetProviders(lctx, c.Movie.TMDBID(), s.country)
			if err != nil {
				logger.FromContext(ctx).Warn("Provider lookup failed, dropping candidate",
					zap.Int64("tmdb_id", c.Movie.TMDBID()),
					zap.Error(err))
				failed[i] = true
				return nil
			}
			perMovie[i] = providers
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	available := make([]dommovie.Recommendation, 0, len(candidates))
	for i, c := range candidates {
		if failed[i] {
			continue
		}

		var common []string
		for _, p := range perMovie[i] {
			if _, ok := union[p]; ok {
				common = append(common, p)
			}
		}
		if len(common) == 0 {
			continue
		}

		sort.Strings(common)
		c.AvailableOn = common
		available = append(available, c)
	}
	return available
}
