// Package movie holds the movie catalog aggregate.
package movie

import (
	"fmt"
	"strconv"

	"github.com/cinephile-labs/cinephile/internal/domain"
)

// Movie is a catalog record (immutable value object). Created during
// ingestion once metadata and embedding both succeed; after creation only
// the readiness flag changes.
type Movie struct {
	tmdbID        int64
	title         string
	originalTitle string
	overview      string
	releaseDate   string // ISO YYYY-MM-DD, may be empty
	posterPath    string
	voteAverage   float64
	voteCount     int64
	popularity    float64
	genres        []string
	embedding     []float32
	ready         bool
}

// New validates and creates a Movie without an embedding.
func New(
	tmdbID int64, title, originalTitle, overview, releaseDate, posterPath string,
	voteAverage float64, voteCount int64, popularity float64, genres []string,
) (Movie, error) {
	if tmdbID <= 0 {
		return Movie{}, fmt.Errorf("tmdb id must be positive: %w", domain.ErrInvalidMovie)
	}
	if title == "" {
		return Movie{}, fmt.Errorf("title is required: %w", domain.ErrInvalidMovie)
	}
	if voteAverage < 0 || voteAverage > 10 {
		return Movie{}, fmt.Errorf("vote average %g out of [0,10]: %w", voteAverage, domain.ErrInvalidMovie)
	}
	if voteCount < 0 {
		return Movie{}, fmt.Errorf("vote count must not be negative: %w", domain.ErrInvalidMovie)
	}

	return Movie{
		tmdbID:        tmdbID,
		title:         title,
		originalTitle: originalTitle,
		overview:      overview,
		releaseDate:   releaseDate,
		posterPath:    posterPath,
		voteAverage:   voteAverage,
		voteCount:     voteCount,
		popularity:    popularity,
		genres:        cloneStrings(genres),
	}, nil
}

// Reconstruct creates a Movie without validation (storage hydration).
func Reconstruct(
	tmdbID int64, title, originalTitle, overview, releaseDate, posterPath string,
	voteAverage float64, voteCount int64, popularity float64, genres []string,
	embedding []float32, ready bool,
) Movie {
	return Movie{
		tmdbID:        tmdbID,
		title:         title,
		originalTitle: originalTitle,
		overview:      overview,
		releaseDate:   releaseDate,
		posterPath:    posterPath,
		voteAverage:   voteAverage,
		voteCount:     voteCount,
		popularity:    popularity,
		genres:        genres,
		embedding:     embedding,
		ready:         ready,
	}
}

// TMDBID returns the stable external identifier.
func (m *Movie) TMDBID() int64 { return m.tmdbID }

// Title returns the localized title.
func (m *Movie) Title() string { return m.title }

// OriginalTitle returns the original-language title.
func (m *Movie) OriginalTitle() string { return m.originalTitle }

// Overview returns the synopsis text.
func (m *Movie) Overview() string { return m.overview }

// ReleaseDate returns the ISO release date, possibly empty.
func (m *Movie) ReleaseDate() string { return m.releaseDate }

// PosterPath returns the poster reference.
func (m *Movie) PosterPath() string { return m.posterPath }

// VoteAverage returns the average rating in [0,10].
func (m *Movie) VoteAverage() float64 { return m.voteAverage }

// VoteCount returns the number of votes.
func (m *Movie) VoteCount() int64 { return m.voteCount }

// Popularity returns the popularity score.
func (m *Movie) Popularity() float64 { return m.popularity }

// Genres returns the genre names.
func (m *Movie) Genres() []string { return m.genres }

// Embedding returns the semantic vector, nil when not vectorized.
func (m *Movie) Embedding() []float32 { return m.embedding }

// Ready reports whether the movie has a populated embedding.
func (m *Movie) Ready() bool { return m.ready }

// Year returns the release year, 0 when the release date is absent or malformed.
func (m *Movie) Year() int {
	if len(m.releaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(m.releaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// WithEmbedding returns a copy with the vector set and the readiness flag raised.
// The embedding is either fully absent or fully populated, never partial.
func (m *Movie) WithEmbedding(v []float32) Movie {
	c := *m
	c.embedding = v
	c.ready = len(v) > 0
	return c
}

// Attributes returns the attribute mapping used by challenge rule evaluation.
func (m *Movie) Attributes() map[string]any {
	attrs := map[string]any{
		"tmdb_id":      m.tmdbID,
		"title":        m.title,
		"overview":     m.overview,
		"release_date": m.releaseDate,
		"poster_path":  m.posterPath,
		"vote_average": m.voteAverage,
		"vote_count":   m.voteCount,
		"popularity":   m.popularity,
		"genres":       m.genres,
	}
	if m.originalTitle != "" {
		attrs["original_title"] = m.originalTitle
	}
	if y := m.Year(); y > 0 {
		attrs["year"] = y
	}
	return attrs
}

// Recommendation is a movie candidate produced by similarity search, with
// the retrieval score and (after availability filtering) the providers the
// cohort can watch it on.
type Recommendation struct {
	Movie       Movie
	Score       float64
	AvailableOn []string
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
