package movie

import (
	"context"
	"errors"
	"testing"

	"github.com/cinephile-labs/cinephile/internal/db"
	"github.com/cinephile-labs/cinephile/internal/domain"
)

func TestUpsert_Create(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	var gotFields map[string]string
	ms.existsFn = func(ctx context.Context, key string) (bool, error) {
		return false, nil
	}
	ms.hsetFn = func(ctx context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	m := testMovie(t, true)
	created, err := repo.Upsert(context.Background(), &m)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !created {
		t.Error("Upsert() created = false, want true for new record")
	}
	if gotKey != "cine:movie:603" {
		t.Errorf("key = %q, want %q", gotKey, "cine:movie:603")
	}
	if gotFields[fieldReady] != "1" {
		t.Errorf("is_ready = %q, want %q", gotFields[fieldReady], "1")
	}
	if gotFields[fieldGenres] != "Action,Science Fiction" {
		t.Errorf("genres = %q, want comma-joined list", gotFields[fieldGenres])
	}
	if _, ok := gotFields[fieldEmbedding]; !ok {
		t.Error("embedding field missing for vectorized movie")
	}
}

func TestUpsert_Update(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.existsFn = func(ctx context.Context, key string) (bool, error) {
		return true, nil
	}

	m := testMovie(t, true)
	created, err := repo.Upsert(context.Background(), &m)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if created {
		t.Error("Upsert() created = true, want false for existing record")
	}
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	repo, _ := newTestRepo(t)

	m := testMovie(t, false)
	m = m.WithEmbedding([]float32{0.1, 0.2}) // repo expects 4

	_, err := repo.Upsert(context.Background(), &m)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("Upsert() error = %v, want ErrVectorDimMismatch", err)
	}
}

func TestUpsert_NoEmbedding(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotFields map[string]string
	ms.hsetFn = func(ctx context.Context, key string, fields map[string]string) error {
		gotFields = fields
		return nil
	}

	m := testMovie(t, false)
	if _, err := repo.Upsert(context.Background(), &m); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if gotFields[fieldReady] != "0" {
		t.Errorf("is_ready = %q, want %q", gotFields[fieldReady], "0")
	}
	if _, ok := gotFields[fieldEmbedding]; ok {
		t.Error("embedding field present for movie without a vector")
	}
}

func TestUpsert_HSetError(t *testing.T) {
	repo, ms := newTestRepo(t)

	storeErr := errors.New("connection reset")
	ms.hsetFn = func(ctx context.Context, key string, fields map[string]string) error {
		return storeErr
	}

	m := testMovie(t, true)
	_, err := repo.Upsert(context.Background(), &m)
	if !errors.Is(err, storeErr) {
		t.Fatalf("Upsert() error = %v, want wrapped store error", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, ms := newTestRepo(t)

	src := testMovie(t, true)
	ms.hgetAllFn = func(ctx context.Context, key string) (map[string]string, error) {
		if key != "cine:movie:603" {
			t.Errorf("key = %q, want %q", key, "cine:movie:603")
		}
		return buildHashFields(&src), nil
	}

	got, err := repo.Get(context.Background(), 603)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.TMDBID() != 603 || got.Title() != "Matrix" {
		t.Errorf("Get() = %d %q, want 603 Matrix", got.TMDBID(), got.Title())
	}
	if !got.Ready() {
		t.Error("Get() ready = false, want true")
	}
	if len(got.Embedding()) != 4 {
		t.Errorf("embedding length = %d, want 4", len(got.Embedding()))
	}
	if got.Year() != 1999 {
		t.Errorf("Year() = %d, want 1999", got.Year())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(ctx context.Context, key string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.Get(context.Background(), 404)
	if !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("Get() error = %v, want ErrMovieNotFound", err)
	}
}

func TestGetMulti_PreservesOrderSkipsMissing(t *testing.T) {
	repo, ms := newTestRepo(t)

	first := testMovie(t, true)
	third := dommovieFixture(t, 680, "Pulp Fiction")
	ms.hgetAllMultiFn = func(ctx context.Context, keys []string) ([]map[string]string, error) {
		want := []string{"cine:movie:603", "cine:movie:404", "cine:movie:680"}
		if len(keys) != len(want) {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
			}
		}
		return []map[string]string{
			buildHashFields(&first),
			{},
			buildHashFields(&third),
		}, nil
	}

	got, err := repo.GetMulti(context.Background(), []int64{603, 404, 680})
	if err != nil {
		t.Fatalf("GetMulti() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetMulti() returned %d movies, want 2", len(got))
	}
	if got[0].TMDBID() != 603 || got[1].TMDBID() != 680 {
		t.Errorf("order = [%d %d], want [603 680]", got[0].TMDBID(), got[1].TMDBID())
	}
}

func TestGetMulti_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllMultiFn = func(ctx context.Context, keys []string) ([]map[string]string, error) {
		t.Fatal("store should not be called for empty input")
		return nil, nil
	}

	got, err := repo.GetMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetMulti() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetMulti() = %v, want nil", got)
	}
}

func TestSearchNearest(t *testing.T) {
	repo, ms := newTestRepo(t)

	near := testMovie(t, true)
	far := dommovieFixture(t, 680, "Pulp Fiction")
	ms.searchKNNFn = func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "cine:movies:idx" {
			t.Errorf("index = %q, want %q", q.IndexName, "cine:movies:idx")
		}
		if q.Prefilter != readyPrefilter {
			t.Errorf("prefilter = %q, want %q", q.Prefilter, readyPrefilter)
		}
		if q.K != 10 {
			t.Errorf("K = %d, want 10", q.K)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "cine:movie:603", Score: 0.12, Fields: buildHashFields(&near)},
				{Key: "cine:movie:680", Score: 0.34, Fields: buildHashFields(&far)},
			},
		}, nil
	}

	recs, err := repo.SearchNearest(context.Background(), []float32{0.1, 0.2, 0.3, 0.4}, 10)
	if err != nil {
		t.Fatalf("SearchNearest() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("SearchNearest() returned %d, want 2", len(recs))
	}
	if recs[0].Movie.TMDBID() != 603 || recs[0].Score != 0.12 {
		t.Errorf("recs[0] = %d score %g, want 603 score 0.12", recs[0].Movie.TMDBID(), recs[0].Score)
	}
	if recs[1].Score <= recs[0].Score {
		t.Error("results not ordered by ascending distance")
	}
}

func TestSearchNearest_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{}, nil
	}

	recs, err := repo.SearchNearest(context.Background(), []float32{0.1, 0.2, 0.3, 0.4}, 10)
	if err != nil {
		t.Fatalf("SearchNearest() error = %v", err)
	}
	if recs != nil {
		t.Errorf("SearchNearest() = %v, want nil", recs)
	}
}

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.indexExistsFn = func(ctx context.Context, name string) (bool, error) {
		return true, nil
	}
	ms.createIndexFn = func(ctx context.Context, def *db.IndexDefinition) error {
		t.Fatal("CreateIndex should not be called when the index exists")
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex() error = %v", err)
	}
}

func TestEnsureIndex_Creates(t *testing.T) {
	repo, ms := newTestRepo(t)
	repo.WithHNSW(HNSWConfig{M: 32, EFConstruct: 400})

	var gotDef *db.IndexDefinition
	ms.createIndexFn = func(ctx context.Context, def *db.IndexDefinition) error {
		gotDef = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex() error = %v", err)
	}
	if gotDef == nil {
		t.Fatal("CreateIndex not called")
	}
	if gotDef.Name != "cine:movies:idx" {
		t.Errorf("index name = %q, want %q", gotDef.Name, "cine:movies:idx")
	}
	if len(gotDef.Prefixes) != 1 || gotDef.Prefixes[0] != "cine:movie:" {
		t.Errorf("prefixes = %v, want [cine:movie:]", gotDef.Prefixes)
	}

	var vec *db.IndexField
	for i := range gotDef.Fields {
		if gotDef.Fields[i].Type == db.IndexFieldVector {
			vec = &gotDef.Fields[i]
		}
	}
	if vec == nil {
		t.Fatal("no vector field in index definition")
	}
	if vec.VectorDim != 4 {
		t.Errorf("vector dim = %d, want 4", vec.VectorDim)
	}
	if vec.VectorDistance != db.DistanceCosine {
		t.Errorf("metric = %q, want cosine", vec.VectorDistance)
	}
	if vec.VectorM != 32 || vec.VectorEFConstruct != 400 {
		t.Errorf("hnsw params = %d/%d, want 32/400", vec.VectorM, vec.VectorEFConstruct)
	}
}

func TestCount(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchCountFn = func(ctx context.Context, index, query string) (int, error) {
		if index != "cine:movies:idx" || query != "*" {
			t.Errorf("SearchCount(%q, %q), want index cine:movies:idx query *", index, query)
		}
		return 42, nil
	}

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 42 {
		t.Errorf("Count() = %d, want 42", n)
	}
}
