package search

import (
	"context"
	"errors"
	"testing"

	"github.com/cinephile-labs/cinephile/internal/domain"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
)

type mockRepo struct {
	searchNearestFn func(ctx context.Context, vector []float32, limit int) ([]dommovie.Recommendation, error)
}

func (m *mockRepo) SearchNearest(ctx context.Context, vector []float32, limit int) ([]dommovie.Recommendation, error) {
	if m.searchNearestFn != nil {
		return m.searchNearestFn(ctx, vector, limit)
	}
	return nil, nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func rec(id int64, score float64) dommovie.Recommendation {
	m := dommovie.Reconstruct(id, "Titre", "", "Synopsis", "2010-01-01", "", 7.5, 1000, 50, nil, nil, true)
	return dommovie.Recommendation{Movie: m, Score: score}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{}, 10, 50)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), q, 10)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestSearch_ReturnsRankedResults(t *testing.T) {
	embedder := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
	repo := &mockRepo{
		searchNearestFn: func(ctx context.Context, vector []float32, limit int) ([]dommovie.Recommendation, error) {
			if len(vector) != 2 {
				t.Errorf("vector length = %d, want 2", len(vector))
			}
			if limit != 10 {
				t.Errorf("limit = %d, want 10", limit)
			}
			return []dommovie.Recommendation{rec(603, 0.1), rec(680, 0.3)}, nil
		},
	}
	svc := New(repo, embedder, 10, 50)

	recs, err := svc.Search(context.Background(), "un film qui fait voyager", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d results, want 2", len(recs))
	}
	if recs[0].Movie.TMDBID() != 603 {
		t.Errorf("first result = %d, want 603 (nearest first)", recs[0].Movie.TMDBID())
	}
}

func TestSearch_LimitDefaultsAndCaps(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"zero uses default", 0, 10},
		{"negative uses default", -3, 10},
		{"within range passes through", 25, 25},
		{"above max is capped", 500, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit int
			repo := &mockRepo{
				searchNearestFn: func(ctx context.Context, vector []float32, limit int) ([]dommovie.Recommendation, error) {
					gotLimit = limit
					return nil, nil
				},
			}
			svc := New(repo, &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}, 10, 50)

			if _, err := svc.Search(context.Background(), "requete", tt.limit); err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if gotLimit != tt.wantLimit {
				t.Errorf("repo limit = %d, want %d", gotLimit, tt.wantLimit)
			}
		})
	}
}

func TestSearch_EmbedderDownDegrades(t *testing.T) {
	embedder := &mockEmbedder{err: errors.New("provider down")}
	repo := &mockRepo{
		searchNearestFn: func(ctx context.Context, vector []float32, limit int) ([]dommovie.Recommendation, error) {
			t.Fatal("repo should not be called when embedding fails")
			return nil, nil
		},
	}
	svc := New(repo, embedder, 10, 50)

	recs, err := svc.Search(context.Background(), "un film qui fait voyager", 10)
	if err != nil {
		t.Fatalf("Search() error = %v, want graceful degradation", err)
	}
	if recs != nil {
		t.Errorf("recs = %v, want nil", recs)
	}
}

func TestSearch_RepoErrorSurfaces(t *testing.T) {
	repoErr := errors.New("index missing")
	repo := &mockRepo{
		searchNearestFn: func(ctx context.Context, vector []float32, limit int) ([]dommovie.Recommendation, error) {
			return nil, repoErr
		},
	}
	svc := New(repo, &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}, 10, 50)

	_, err := svc.Search(context.Background(), "requete", 10)
	if !errors.Is(err, repoErr) {
		t.Fatalf("Search() error = %v, want wrapped repo error", err)
	}
}
