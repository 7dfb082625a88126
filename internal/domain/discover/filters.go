// Package discover holds the discovery filter vocabulary shared by the mood
// translator, the metadata provider client, and ingestion.
package discover

// Filter map keys, named after the TMDB discover query parameters they feed.
const (
	KeyGenres         = "with_genres"
	KeyReleasedAfter  = "primary_release_date.gte"
	KeyReleasedBefore = "primary_release_date.lte"
	KeySortBy         = "sort_by"
)

// SortPopularityDesc is the default sort directive.
const SortPopularityDesc = "popularity.desc"

// Filters is a discovery filter map produced per request, never persisted.
// A well-formed filter map always carries a sort directive.
type Filters map[string]string

// EnsureSort sets the default sort directive if none is present.
func (f Filters) EnsureSort() {
	if _, ok := f[KeySortBy]; !ok {
		f[KeySortBy] = SortPopularityDesc
	}
}

// Clone returns a shallow copy.
func (f Filters) Clone() Filters {
	c := make(Filters, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}
