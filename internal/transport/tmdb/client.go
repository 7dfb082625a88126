// Package tmdb is a thin client for The Movie Database REST API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cinephile-labs/cinephile/internal/domain"
	"github.com/cinephile-labs/cinephile/internal/metrics"
)

// MovieSummary is a lightweight listing entry (search, popular, discover by provider).
type MovieSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// MovieRecord is a full discover result used by catalog ingestion.
type MovieRecord struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	GenreIDs      []int64 `json:"genre_ids"`
}

// Client calls the TMDB v3 API with a Read Access Token.
type Client struct {
	baseURL     string
	accessToken string
	language    string
	httpClient  *http.Client
	logger      *zap.Logger
}

// Config holds TMDB client settings.
type Config struct {
	BaseURL     string
	AccessToken string
	Language    string
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewClient creates a TMDB API client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	language := cfg.Language
	if language == "" {
		language = "fr-FR"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: cfg.AccessToken,
		language:    language,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// GetProviders returns the flatrate streaming provider names for a movie in
// the given country (ISO 3166-1 code). A movie with no providers in that
// country yields an empty list, not an error.
func (c *Client) GetProviders(ctx context.Context, movieID int64, country string) ([]string, error) {
	var payload struct {
		Results map[string]struct {
			Flatrate []struct {
				ProviderName string `json:"provider_name"`
			} `json:"flatrate"`
		} `json:"results"`
	}

	path := fmt.Sprintf("/movie/%d/watch/providers", movieID)
	if err := c.get(ctx, "watch_providers", path, nil, &payload); err != nil {
		return nil, err
	}

	countryData, ok := payload.Results[strings.ToUpper(country)]
	if !ok {
		return nil, nil
	}

	providers := make([]string, 0, len(countryData.Flatrate))
	for _, p := range countryData.Flatrate {
		if p.ProviderName != "" {
			providers = append(providers, p.ProviderName)
		}
	}
	return providers, nil
}

// SearchMovies searches the TMDB catalog by title.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]MovieSummary, error) {
	params := url.Values{}
	params.Set("query", query)

	var payload struct {
		Results []MovieSummary `json:"results"`
	}
	if err := c.get(ctx, "search", "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return withIDs(payload.Results), nil
}

// GetPopular returns the current popular movies page.
func (c *Client) GetPopular(ctx context.Context, page int) ([]MovieSummary, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(pageOrFirst(page)))

	var payload struct {
		Results []MovieSummary `json:"results"`
	}
	if err := c.get(ctx, "popular", "/movie/popular", params, &payload); err != nil {
		return nil, err
	}
	return withIDs(payload.Results), nil
}

// DiscoverByProviders lists movies watchable on any of the given provider IDs
// in the watch region, most popular first. Duplicate IDs are dropped.
func (c *Client) DiscoverByProviders(ctx context.Context, providerIDs []int64, region string, page int) ([]MovieSummary, error) {
	if len(providerIDs) == 0 {
		return nil, fmt.Errorf("provider ids must not be empty: %w", domain.ErrMetadataProviderError)
	}

	ids := make([]string, len(providerIDs))
	for i, id := range providerIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("watch_region", strings.ToUpper(region))
	params.Set("with_watch_providers", strings.Join(ids, "|"))
	params.Set("page", strconv.Itoa(pageOrFirst(page)))

	var payload struct {
		Results []MovieSummary `json:"results"`
	}
	if err := c.get(ctx, "discover", "/discover/movie", params, &payload); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(payload.Results))
	movies := make([]MovieSummary, 0, len(payload.Results))
	for _, m := range payload.Results {
		if m.ID == 0 || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		movies = append(movies, m)
	}
	return movies, nil
}

// Discover lists full movie records matching arbitrary discover filters
// (with_genres, primary_release_date windows, vote thresholds). Used by
// catalog ingestion.
func (c *Client) Discover(ctx context.Context, filters map[string]string, page int) ([]MovieRecord, error) {
	params := url.Values{}
	for k, v := range filters {
		params.Set(k, v)
	}
	params.Set("page", strconv.Itoa(pageOrFirst(page)))

	var payload struct {
		Results []MovieRecord `json:"results"`
	}
	if err := c.get(ctx, "discover", "/discover/movie", params, &payload); err != nil {
		return nil, err
	}

	records := make([]MovieRecord, 0, len(payload.Results))
	for _, m := range payload.Results {
		if m.ID == 0 {
			continue
		}
		records = append(records, m)
	}
	return records, nil
}

// get performs an authenticated GET and decodes the JSON payload into out.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if c.accessToken == "" {
		return fmt.Errorf("tmdb access token is not configured: %w", domain.ErrMetadataProviderError)
	}

	if params == nil {
		params = url.Values{}
	}
	if params.Get("language") == "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return fmt.Errorf("tmdb request %s: %v: %w", path, err, domain.ErrMetadataProviderError)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.TMDBRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	metrics.TMDBRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("tmdb %s: %w", path, domain.ErrMovieNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("TMDB API error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return fmt.Errorf("tmdb API error %d on %s: %w", resp.StatusCode, path, domain.ErrMetadataProviderError)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding tmdb response: %v: %w", err, domain.ErrMetadataProviderError)
	}
	return nil
}

func withIDs(in []MovieSummary) []MovieSummary {
	out := make([]MovieSummary, 0, len(in))
	for _, m := range in {
		if m.ID != 0 {
			out = append(out, m)
		}
	}
	return out
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
