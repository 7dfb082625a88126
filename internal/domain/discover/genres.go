package discover

import "sort"

// GenreIDs maps catalog genre names to their TMDB genre identifiers.
// This is the closed vocabulary used by ingestion and by the mood translator.
var GenreIDs = map[string]int{
	"Action":          28,
	"Aventure":        12,
	"Animation":       16,
	"Comédie":         35,
	"Crime":           80,
	"Documentaire":    99,
	"Drame":           18,
	"Famille":         10751,
	"Fantastique":     14,
	"Histoire":        36,
	"Horreur":         27,
	"Musique":         10402,
	"Mystère":         9648,
	"Romance":         10749,
	"Science Fiction": 878,
	"Téléfilm":        10770,
	"Thriller":        53,
	"Guerre":          10752,
	"Western":         37,
}

// GenreNames returns the catalog genre names in stable alphabetical order.
func GenreNames() []string {
	names := make([]string, 0, len(GenreIDs))
	for name := range GenreIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var genreNamesByID = func() map[int64]string {
	byID := make(map[int64]string, len(GenreIDs))
	for name, id := range GenreIDs {
		byID[int64(id)] = name
	}
	return byID
}()

// GenreNamesFor maps TMDB genre identifiers to catalog genre names,
// dropping ids outside the vocabulary.
func GenreNamesFor(ids []int64) []string {
	var names []string
	for _, id := range ids {
		if name, ok := genreNamesByID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
