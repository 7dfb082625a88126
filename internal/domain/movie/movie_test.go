package movie

import (
	"errors"
	"testing"

	"github.com/cinephile-labs/cinephile/internal/domain"
)

func validMovie(t *testing.T) Movie {
	t.Helper()
	m, err := New(603, "Matrix", "The Matrix", "Un hacker découvre la vérité.",
		"1999-03-31", "/matrix.jpg", 8.2, 24000, 85.5, []string{"Action", "Science Fiction"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestNew_Valid(t *testing.T) {
	m := validMovie(t)
	if m.TMDBID() != 603 {
		t.Errorf("tmdb id = %d, want 603", m.TMDBID())
	}
	if m.Ready() {
		t.Error("new movie must not be ready before embedding")
	}
	if m.Embedding() != nil {
		t.Error("new movie must not carry an embedding")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		tmdbID      int64
		title       string
		voteAverage float64
		voteCount   int64
	}{
		{"zero id", 0, "Matrix", 8.2, 100},
		{"negative id", -5, "Matrix", 8.2, 100},
		{"empty title", 603, "", 8.2, 100},
		{"vote average above 10", 603, "Matrix", 10.5, 100},
		{"negative vote average", 603, "Matrix", -1, 100},
		{"negative vote count", 603, "Matrix", 8.2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.tmdbID, tt.title, "", "", "", "", tt.voteAverage, tt.voteCount, 0, nil)
			if !errors.Is(err, domain.ErrInvalidMovie) {
				t.Errorf("expected ErrInvalidMovie, got %v", err)
			}
		})
	}
}

func TestNew_ClonesGenres(t *testing.T) {
	genres := []string{"Action"}
	m, err := New(603, "Matrix", "", "", "", "", 8.2, 100, 0, genres)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	genres[0] = "Horreur"
	if m.Genres()[0] != "Action" {
		t.Errorf("genre mutated through caller slice: %q", m.Genres()[0])
	}
}

func TestWithEmbedding_RaisesReadiness(t *testing.T) {
	m := validMovie(t)
	v := m.WithEmbedding([]float32{0.1, 0.2})
	if !v.Ready() {
		t.Error("expected ready after embedding")
	}
	if len(v.Embedding()) != 2 {
		t.Errorf("embedding length = %d, want 2", len(v.Embedding()))
	}
	if m.Ready() {
		t.Error("original must stay untouched")
	}
}

func TestWithEmbedding_EmptyVectorNotReady(t *testing.T) {
	m := validMovie(t)
	v := m.WithEmbedding(nil)
	if v.Ready() {
		t.Error("empty vector must not mark the movie ready")
	}
}

func TestYear(t *testing.T) {
	tests := []struct {
		name        string
		releaseDate string
		want        int
	}{
		{"full date", "1999-03-31", 1999},
		{"year only", "2008", 2008},
		{"empty", "", 0},
		{"too short", "99", 0},
		{"garbage", "abcd-01-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Reconstruct(1, "x", "", "", tt.releaseDate, "", 5, 1, 0, nil, nil, false)
			if got := m.Year(); got != tt.want {
				t.Errorf("Year() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAttributes(t *testing.T) {
	m := validMovie(t)
	attrs := m.Attributes()

	if attrs["tmdb_id"] != int64(603) {
		t.Errorf("tmdb_id = %v", attrs["tmdb_id"])
	}
	if attrs["year"] != 1999 {
		t.Errorf("year = %v, want 1999", attrs["year"])
	}
	if attrs["original_title"] != "The Matrix" {
		t.Errorf("original_title = %v", attrs["original_title"])
	}
	genres, ok := attrs["genres"].([]string)
	if !ok || len(genres) != 2 {
		t.Fatalf("genres = %v", attrs["genres"])
	}
}

func TestAttributes_OmitsAbsentFields(t *testing.T) {
	m := Reconstruct(1, "Sans titre original", "", "", "", "", 5, 1, 0, nil, nil, false)
	attrs := m.Attributes()
	if _, ok := attrs["year"]; ok {
		t.Error("year must be absent when release date is empty")
	}
	if _, ok := attrs["original_title"]; ok {
		t.Error("original_title must be absent when empty")
	}
}
