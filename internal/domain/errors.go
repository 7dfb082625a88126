package domain

import "errors"

var (
	// ErrMovieNotFound signals a missing movie record.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrChallengeNotFound signals a missing challenge.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrInvalidMovie signals an invalid movie record.
	ErrInvalidMovie = errors.New("invalid movie")
	// ErrInvalidChallenge signals an invalid challenge definition.
	ErrInvalidChallenge = errors.New("invalid challenge")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrMetadataProviderError signals a movie-metadata provider failure.
	ErrMetadataProviderError = errors.New("metadata provider error")
)
