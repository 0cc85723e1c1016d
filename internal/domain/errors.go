package domain

import "errors"

var (
	// ErrEmptyDescription signals a blank search description; no outbound calls are made.
	ErrEmptyDescription = errors.New("description is required")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSearchFailed signals a vector search query failure.
	ErrSearchFailed = errors.New("vector search failed")
)
