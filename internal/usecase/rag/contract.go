package rag

import (
	"context"

	"github.com/kailas-cloud/catalogd/internal/domain/rag"
)

// EmbeddingLister reads stored content embeddings of one model.
// An empty contentType lists every type.
type EmbeddingLister interface {
	List(ctx context.Context, model, contentType string) ([]rag.ContentEmbedding, error)
}

// AnswerCache stores answered questions.
type AnswerCache interface {
	Get(ctx context.Context, key string) (rag.Answer, bool, error)
	Put(ctx context.Context, key string, a rag.Answer) error
	Clear(ctx context.Context) (int, error)
}
