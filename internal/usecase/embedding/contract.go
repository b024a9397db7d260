package embedding

import (
	"context"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
)

// CatalogReader lists every catalog entity that gets a content embedding.
type CatalogReader interface {
	ListMovies(ctx context.Context) ([]catalog.Movie, error)
	ListCharacters(ctx context.Context) ([]catalog.Character, error)
	ListAttractions(ctx context.Context) ([]catalog.Attraction, error)
}

// EmbeddingStore persists content embeddings per model.
type EmbeddingStore interface {
	Save(ctx context.Context, embs []rag.ContentEmbedding) error
	Exists(ctx context.Context, model, contentType string, contentID int64) (bool, error)
	DeleteAll(ctx context.Context) (int, error)
}
