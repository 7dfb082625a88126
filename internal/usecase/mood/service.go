// Package mood translates free-text mood descriptions into TMDB discover
// filters. A generative model is tried first; a deterministic keyword
// analysis always provides an answer when the model cannot.
package mood

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cinephile-labs/cinephile/internal/domain/discover"
	"github.com/cinephile-labs/cinephile/internal/logger"
	"github.com/cinephile-labs/cinephile/internal/metrics"
)

const defaultCompletionTimeout = 10 * time.Second

// Service resolves mood text into discover filters. Translate is total: it
// never returns an error, every input produces at least a default sort.
type Service struct {
	completion CompletionClient
	timeout    time.Duration
}

// New creates a mood translation service. completion may be nil, in which
// case only the deterministic fallback runs.
func New(completion CompletionClient, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	return &Service{completion: completion, timeout: timeout}
}

// Translate converts mood text into discover filters.
func (s *Service) Translate(ctx context.Context, moodText string) discover.Filters {
	if s.completion != nil {
		if filters, ok := s.translateGenerative(ctx, moodText); ok {
			metrics.MoodTranslationsTotal.WithLabelValues("generative").Inc()
			return filters
		}
	}

	metrics.MoodTranslationsTotal.WithLabelValues("fallback").Inc()
	return analyzeKeywords(moodText)
}

// translateGenerative asks the model for a filter JSON object. Any failure
// (transport, no JSON in the output, unparsable JSON) reports not-ok so the
// caller falls through to the keyword analysis.
func (s *Service) translateGenerative(ctx context.Context, moodText string) (discover.Filters, bool) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.completion.Complete(cctx, buildPrompt(moodText))
	if err != nil {
		logger.FromContext(ctx).Debug("Mood completion failed, using keyword fallback",
			zap.Error(err))
		return nil, false
	}

	block, ok := extractJSONBlock(response)
	if !ok {
		logger.FromContext(ctx).Debug("Mood completion returned no JSON object",
			zap.String("response", response))
		return nil, false
	}

	filters, ok := parseFilterObject(block)
	if !ok {
		logger.FromContext(ctx).Debug("Mood completion JSON did not parse",
			zap.String("block", block))
		return nil, false
	}

	filters.EnsureSort()
	return filters, true
}

// buildPrompt embeds the closed genre vocabulary so the model cannot invent IDs.
func buildPrompt(moodText string) string {
	var sb strings.Builder
	sb.WriteString("Tu es un expert de l'API TMDB. Réponds UNIQUEMENT avec un objet JSON.\n")
	sb.WriteString("Clés autorisées : 'with_genres' (IDs séparés par des virgules), ")
	sb.WriteString("'primary_release_date.gte' (YYYY-MM-DD), 'primary_release_date.lte' (YYYY-MM-DD), 'sort_by'.\n")
	sb.WriteString("IDs de genres :")
	for _, name := range discover.GenreNames() {
		fmt.Fprintf(&sb, " %s=%d,", name, discover.GenreIDs[name])
	}
	sb.WriteString("\nExemple : \"Action 2022\" -> {\"with_genres\": \"28\", \"primary_release_date.gte\": \"2022-01-01\"}\n\n")
	sb.WriteString("Requête : ")
	sb.WriteString(moodText)
	return sb.String()
}

// extractJSONBlock returns the first balanced top-level {...} block in text.
// Braces inside JSON string literals are skipped.
func extractJSONBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// parseFilterObject converts a JSON object into filters, accepting string and
// numeric values. Keys with other value types are dropped.
func parseFilterObject(block string) (discover.Filters, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil, false
	}

	filters := make(discover.Filters, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			if val != "" {
				filters[k] = val
			}
		case float64:
			filters[k] = strconv.FormatFloat(val, 'f', -1, 64)
		}
	}
	return filters, true
}
