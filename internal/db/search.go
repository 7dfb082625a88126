package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Prefilter    string // FT.SEARCH pre-filter expression, "*" semantics when empty
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation. Entries preserve the
// order returned by the index (nearest first for KNN).
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search. Score is the raw vector
// distance for KNN queries (cosine distance, smaller is nearer).
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
