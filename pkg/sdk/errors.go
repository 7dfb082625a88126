package cinephile

import "github.com/cinephile-labs/cinephile/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMovieNotFound          = domain.ErrMovieNotFound
	ErrChallengeNotFound      = domain.ErrChallengeNotFound
	ErrAlreadyExists          = domain.ErrAlreadyExists
	ErrEmptyQuery             = domain.ErrEmptyQuery
	ErrInvalidMovie           = domain.ErrInvalidMovie
	ErrInvalidChallenge       = domain.ErrInvalidChallenge
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrMetadataProviderError  = domain.ErrMetadataProviderError
)
