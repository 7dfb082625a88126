package cinephile

import "context"

// Embedder converts text to vector embeddings. Provide one via WithEmbedder
// to plug a custom provider into the search pipeline.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
