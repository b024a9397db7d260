package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a search or question the caller must fix.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidCapabilities signals a malformed search capability configuration.
	ErrInvalidCapabilities = errors.New("invalid search capabilities")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrRAGDisabled signals that question answering is switched off.
	ErrRAGDisabled = errors.New("question answering disabled")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals a text generation provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrVectorDimMismatch signals vectors of different dimensions.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
