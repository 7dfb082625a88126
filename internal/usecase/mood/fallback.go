package mood

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cinephile-labs/cinephile/internal/domain/discover"
)

// genreSynonyms maps TMDB genre IDs to the French keywords that trigger them.
// Iterated in table order so the output genre list is stable.
var genreSynonyms = []struct {
	genreID  int
	keywords []string
}{
	{28, []string{"action", "bagarre", "combat", "violent", "guerre", "bataille", "arme", "explosion", "se batte"}},
	{35, []string{"drôle", "rire", "comédie", "fun", "léger", "humoristique", "comique", "marrant"}},
	{27, []string{"peur", "horreur", "effrayant", "sang", "zombie", "monstre", "tueur", "terrifiant", "angoissant"}},
	{878, []string{"sf", "science-fiction", "espace", "alien", "futur", "robot", "vaisseau", "planète"}},
	{18, []string{"triste", "pleurer", "émouvant", "drame", "sombre", "dramatique", "tragique"}},
	{10749, []string{"amour", "romance", "love", "couple", "romantique", "sentimental"}},
	{16, []string{"dessin animé", "animation", "manga", "pixar", "disney", "animé"}},
	{53, []string{"thriller", "suspense", "tension", "mystère", "policier", "psychologique"}},
	{37, []string{"western", "cowboy", "far west"}},
}

var (
	// "années 80", "annees 1990"
	decadePhraseRe = regexp.MustCompile(`\bann[ée]es\s+(\d{2,4})\b`)
	bareYearRe     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// analyzeKeywords is the deterministic mood analysis: genre synonyms plus
// simple temporal phrases. Always returns at least the default sort.
func analyzeKeywords(text string) discover.Filters {
	lower := strings.ToLower(text)
	filters := discover.Filters{}

	var genreIDs []string
	for _, entry := range genreSynonyms {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				genreIDs = append(genreIDs, fmt.Sprintf("%d", entry.genreID))
				break
			}
		}
	}
	if len(genreIDs) > 0 {
		filters[discover.KeyGenres] = strings.Join(genreIDs, ",")
	}

	if from, to, ok := detectReleaseWindow(lower); ok {
		filters[discover.KeyReleasedAfter] = from
		filters[discover.KeyReleasedBefore] = to
	}

	filters.EnsureSort()
	return filters
}

// detectReleaseWindow finds a decade phrase or a bare year in the text.
// The decade marker binds tighter than a bare year: "années 90" is the whole
// nineties even though "90" alone would not match.
func detectReleaseWindow(lower string) (from, to string, ok bool) {
	if m := decadePhraseRe.FindStringSubmatch(lower); m != nil {
		if start, ok := decadeStart(m[1]); ok {
			return fmt.Sprintf("%d-01-01", start), fmt.Sprintf("%d-12-31", start+9), true
		}
	}

	if m := bareYearRe.FindString(lower); m != "" {
		year := atoi4(m)
		// Round years in the 2000s ("2010") almost always mean the decade.
		if year >= 2000 && year%10 == 0 {
			return fmt.Sprintf("%d-01-01", year), fmt.Sprintf("%d-12-31", year+9), true
		}
		return fmt.Sprintf("%d-01-01", year), fmt.Sprintf("%d-12-31", year), true
	}

	return "", "", false
}

// decadeStart resolves a decade token to its first year. Two-digit tokens use
// a pivot at 50: "80" is 1980, "20" is 2020.
func decadeStart(token string) (int, bool) {
	switch len(token) {
	case 2:
		d := int(token[0]-'0')*10 + int(token[1]-'0')
		if d < 50 {
			return 2000 + d, true
		}
		return 1900 + d, true
	case 4:
		year := atoi4(token)
		if year < 1900 || year > 2099 {
			return 0, false
		}
		return year - year%10, true
	default:
		return 0, false
	}
}

func atoi4(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
