package cinephile

import (
	"time"

	domchallenge "github.com/cinephile-labs/cinephile/internal/domain/challenge"
	dommovie "github.com/cinephile-labs/cinephile/internal/domain/movie"
	challengeuc "github.com/cinephile-labs/cinephile/internal/usecase/challenge"
)

// Recommendation is a ranked movie candidate. AvailableOn lists the cohort's
// streaming providers carrying the movie; empty when no cohort was given.
type Recommendation struct {
	TMDBID      int64
	Title       string
	Overview    string
	ReleaseDate string
	PosterPath  string
	VoteAverage float64
	Genres      []string
	Score       float64
	AvailableOn []string
}

// Movie is a stored catalog record.
type Movie struct {
	TMDBID        int64
	Title         string
	OriginalTitle string
	Overview      string
	ReleaseDate   string
	PosterPath    string
	VoteAverage   float64
	VoteCount     int64
	Popularity    float64
	Genres        []string
	Ready         bool
}

// Rule is a single declarative challenge condition.
type Rule struct {
	Field    string
	Operator string
	Value    any
}

// Challenge is a watch challenge: a record satisfies it when every rule holds.
type Challenge struct {
	ID          string
	Title       string
	Description string
	Type        string
	TargetCount int
	Rules       []Rule
	XPReward    int
	Active      bool
	CreatedAt   time.Time
}

// Verdict is one movie's evaluation against a challenge.
type Verdict struct {
	TMDBID  int64
	Title   string
	Matches bool
}

// Evaluation is the outcome of evaluating movies against a challenge.
type Evaluation struct {
	ChallengeID  string
	Verdicts     []Verdict
	MatchedCount int
	Completed    bool
}

// MoodFilters is a discovery filter map keyed by TMDB discover parameters.
// It always carries a "sort_by" entry.
type MoodFilters map[string]string

func recommendationFromDomain(rec *dommovie.Recommendation) Recommendation {
	m := &rec.Movie
	return Recommendation{
		TMDBID:      m.TMDBID(),
		Title:       m.Title(),
		Overview:    m.Overview(),
		ReleaseDate: m.ReleaseDate(),
		PosterPath:  m.PosterPath(),
		VoteAverage: m.VoteAverage(),
		Genres:      m.Genres(),
		Score:       rec.Score,
		AvailableOn: rec.AvailableOn,
	}
}

func movieFromDomain(m *dommovie.Movie) Movie {
	return Movie{
		TMDBID:        m.TMDBID(),
		Title:         m.Title(),
		OriginalTitle: m.OriginalTitle(),
		Overview:      m.Overview(),
		ReleaseDate:   m.ReleaseDate(),
		PosterPath:    m.PosterPath(),
		VoteAverage:   m.VoteAverage(),
		VoteCount:     m.VoteCount(),
		Popularity:    m.Popularity(),
		Genres:        m.Genres(),
		Ready:         m.Ready(),
	}
}

func challengeToDomain(c Challenge) domchallenge.Challenge {
	rules := make([]domchallenge.Rule, len(c.Rules))
	for i, r := range c.Rules {
		rules[i] = domchallenge.Rule{
			Field:    r.Field,
			Operator: domchallenge.Operator(r.Operator),
			Value:    r.Value,
		}
	}
	return domchallenge.Challenge{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Type:        domchallenge.Type(c.Type),
		TargetCount: c.TargetCount,
		Rules:       rules,
		XPReward:    c.XPReward,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

func challengeFromDomain(c domchallenge.Challenge) Challenge {
	rules := make([]Rule, len(c.Rules))
	for i, r := range c.Rules {
		rules[i] = Rule{
			Field:    r.Field,
			Operator: string(r.Operator),
			Value:    r.Value,
		}
	}
	return Challenge{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Type:        string(c.Type),
		TargetCount: c.TargetCount,
		Rules:       rules,
		XPReward:    c.XPReward,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

func evaluationFromDomain(e challengeuc.Evaluation) Evaluation {
	verdicts := make([]Verdict, len(e.Verdicts))
	for i, v := range e.Verdicts {
		verdicts[i] = Verdict{TMDBID: v.TMDBID, Title: v.Title, Matches: v.Matches}
	}
	return Evaluation{
		ChallengeID:  e.ChallengeID,
		Verdicts:     verdicts,
		MatchedCount: e.MatchedCount,
		Completed:    e.Completed,
	}
}
