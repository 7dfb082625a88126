package movie

import (
	"context"
	"testing"

	"github.com/cinephile-labs/cinephile/internal/db"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	existsFn       func(ctx context.Context, key string) (bool, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
	searchKNNFn    func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchCountFn  func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "cine:", 4)
	return repo, ms
}

func dommovieFixture(t *testing.T, tmdbID int64, title string) dommovie.Movie {
	t.Helper()
	m := dommovie.Reconstruct(
		tmdbID, title, title,
		"Synopsis.",
		"1994-10-14", "/poster.jpg",
		8.5, 27000, 80.1,
		[]string{"Crime", "Drame"},
		nil, false,
	)
	return m.WithEmbedding([]float32{0.5, 0.6, 0.7, 0.8})
}

func testMovie(t *testing.T, ready bool) dommovie.Movie {
	t.Helper()
	m := dommovie.Reconstruct(
		603, "Matrix", "The Matrix",
		"Un pirate informatique découvre la vraie nature de la réalité.",
		"1999-03-31", "/matrix.jpg",
		8.2, 25000, 95.3,
		[]string{"Action", "Science Fiction"},
		nil, false,
	)
	if ready {
		m = m.WithEmbedding([]float32{0.1, 0.2, 0.3, 0.4})
	}
	return m
}
