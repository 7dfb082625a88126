package cinephile

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs     []string
	password  string
	keyPrefix string

	embedder Embedder

	embeddingAPIKey  string
	embeddingBaseURL string
	embeddingModel   string
	vectorDimensions int
	queryInstruction string

	completionAPIKey  string
	completionBaseURL string
	completionModel   string

	tmdbToken   string
	tmdbCountry string

	hnswM           int
	hnswEFConstruct int
	defaultLimit    int
	maxLimit        int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the storage key namespace. Default: "cine:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithEmbedder sets a custom text embedding provider. Takes precedence over
// WithOpenAIEmbeddings.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAIEmbeddings configures an OpenAI-compatible embedding provider.
// baseURL may be empty for the default endpoint. Without any embedding
// provider, searches degrade to empty results.
func WithOpenAIEmbeddings(apiKey, baseURL, model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingAPIKey = apiKey
		c.embeddingBaseURL = baseURL
		c.embeddingModel = model
		c.vectorDimensions = dimensions
	})
}

// WithQueryInstruction sets the instruction prefix applied to query
// embeddings. Must match the instruction used at ingestion time for the
// ranking to hold.
func WithQueryInstruction(instruction string) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryInstruction = instruction
	})
}

// WithMoodCompletion configures the OpenAI-compatible completion provider
// for the generative mood path. Without it the deterministic keyword
// fallback handles every mood.
func WithMoodCompletion(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.completionAPIKey = apiKey
		c.completionBaseURL = baseURL
		c.completionModel = model
	})
}

// WithTMDB configures the movie metadata provider used for streaming
// availability. country is an ISO 3166-1 code, e.g. "FR". Without a token
// the availability filter is skipped.
func WithTMDB(accessToken, country string) Option {
	return optionFunc(func(c *clientConfig) {
		c.tmdbToken = accessToken
		c.tmdbCountry = country
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=32, EFConstruct=400.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithSearchLimits sets the default and maximum number of candidates per
// search. Defaults: 10 and 50.
func WithSearchLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
