package movie

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
)

// Hash field names for a stored movie record.
const (
	fieldTMDBID        = "tmdb_id"
	fieldTitle         = "title"
	fieldOriginalTitle = "original_title"
	fieldOverview      = "overview"
	fieldReleaseDate   = "release_date"
	fieldPosterPath    = "poster_path"
	fieldVoteAverage   = "vote_average"
	fieldVoteCount     = "vote_count"
	fieldPopularity    = "popularity"
	fieldGenres        = "genres"
	fieldReady         = "is_ready"
	fieldEmbedding     = "embedding"
)

// metadataFields are the hash fields fetched by searches (the vector blob stays behind).
var metadataFields = []string{
	fieldTMDBID, fieldTitle, fieldOriginalTitle, fieldOverview,
	fieldReleaseDate, fieldPosterPath, fieldVoteAverage, fieldVoteCount,
	fieldPopularity, fieldGenres, fieldReady,
}

// buildHashFields converts a domain Movie into a flat map[string]string for HSET.
func buildHashFields(m *dommovie.Movie) map[string]string {
	fields := map[string]string{
		fieldTMDBID:        strconv.FormatInt(m.TMDBID(), 10),
		fieldTitle:         m.Title(),
		fieldOriginalTitle: m.OriginalTitle(),
		fieldOverview:      m.Overview(),
		fieldReleaseDate:   m.ReleaseDate(),
		fieldPosterPath:    m.PosterPath(),
		fieldVoteAverage:   strconv.FormatFloat(m.VoteAverage(), 'f', -1, 64),
		fieldVoteCount:     strconv.FormatInt(m.VoteCount(), 10),
		fieldPopularity:    strconv.FormatFloat(m.Popularity(), 'f', -1, 64),
		fieldGenres:        strings.Join(m.Genres(), ","),
		fieldReady:         "0",
	}
	if m.Ready() {
		fields[fieldReady] = "1"
	}
	if len(m.Embedding()) > 0 {
		fields[fieldEmbedding] = vectorToBytes(m.Embedding())
	}
	return fields
}

// parseHashFields converts a flat hash map back into a domain Movie.
func parseHashFields(m map[string]string) dommovie.Movie {
	tmdbID, _ := strconv.ParseInt(m[fieldTMDBID], 10, 64)
	voteAverage, _ := strconv.ParseFloat(m[fieldVoteAverage], 64)
	voteCount, _ := strconv.ParseInt(m[fieldVoteCount], 10, 64)
	popularity, _ := strconv.ParseFloat(m[fieldPopularity], 64)

	var genres []string
	if g := m[fieldGenres]; g != "" {
		genres = strings.Split(g, ",")
	}

	var embedding []float32
	if raw, ok := m[fieldEmbedding]; ok {
		embedding = bytesToVector(raw)
	}

	return dommovie.Reconstruct(
		tmdbID,
		m[fieldTitle],
		m[fieldOriginalTitle],
		m[fieldOverview],
		m[fieldReleaseDate],
		m[fieldPosterPath],
		voteAverage,
		voteCount,
		popularity,
		genres,
		embedding,
		m[fieldReady] == "1",
	)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
