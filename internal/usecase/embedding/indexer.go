package embedding

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
	"github.com/kailas-cloud/catalogd/internal/logger"
)

// DefaultIndexBatchSize is how many documents are embedded and saved together.
const DefaultIndexBatchSize = 32

// Report counts embeddings generated by one indexing run.
type Report struct {
	CharactersProcessed int `json:"characters_processed"`
	MoviesProcessed     int `json:"movies_processed"`
	ParksProcessed      int `json:"parks_processed"`
	TotalProcessed      int `json:"total_processed"`
}

// Indexer builds content embeddings for the whole catalog.
type Indexer struct {
	catalog   CatalogReader
	store     EmbeddingStore
	embedder  domain.Embedder
	model     string
	batchSize int
	mu        sync.Mutex
}

// NewIndexer creates an indexer. Embeddings are tagged with model.
func NewIndexer(c CatalogReader, s EmbeddingStore, e domain.Embedder, model string) *Indexer {
	return &Indexer{
		catalog:   c,
		store:     s,
		embedder:  e,
		model:     model,
		batchSize: DefaultIndexBatchSize,
	}
}

// WithBatchSize overrides how many documents are embedded per provider call.
func (ix *Indexer) WithBatchSize(n int) *Indexer {
	if n > 0 {
		ix.batchSize = n
	}
	return ix
}

// GenerateAll embeds every character, movie and attraction.
// Without force, entities that already have an embedding for the current model are skipped.
// With force, all stored embeddings are deleted first.
// Runs are serialized.
func (ix *Indexer) GenerateAll(ctx context.Context, force bool) (Report, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info("embedding generation started", zap.Bool("force", force), zap.String("model", ix.model))

	if force {
		n, err := ix.store.DeleteAll(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("delete embeddings: %w", err)
		}
		log.Info("existing embeddings deleted", zap.Int("count", n))
	}

	var r Report

	characters, err := ix.catalog.ListCharacters(ctx)
	if err != nil {
		return r, fmt.Errorf("list characters: %w", err)
	}
	if r.CharactersProcessed, err = index(ctx, ix, catalog.TypeCharacter, characters,
		func(c catalog.Character) int64 { return c.ID }, rag.CharacterText, force); err != nil {
		return r, err
	}

	movies, err := ix.catalog.ListMovies(ctx)
	if err != nil {
		return r, fmt.Errorf("list movies: %w", err)
	}
	if r.MoviesProcessed, err = index(ctx, ix, catalog.TypeMovie, movies,
		func(m catalog.Movie) int64 { return m.ID }, rag.MovieText, force); err != nil {
		return r, err
	}

	attractions, err := ix.catalog.ListAttractions(ctx)
	if err != nil {
		return r, fmt.Errorf("list attractions: %w", err)
	}
	if r.ParksProcessed, err = index(ctx, ix, catalog.TypeAttraction, attractions,
		func(a catalog.Attraction) int64 { return a.ID }, rag.AttractionText, force); err != nil {
		return r, err
	}

	r.TotalProcessed = r.CharactersProcessed + r.MoviesProcessed + r.ParksProcessed
	log.Info("embedding generation complete",
		zap.Int("characters", r.CharactersProcessed),
		zap.Int("movies", r.MoviesProcessed),
		zap.Int("parks", r.ParksProcessed),
	)
	return r, nil
}

// index embeds rows of one content type in batches and returns how many were saved.
// A failed provider batch is logged and skipped; storage errors abort.
func index[T any](
	ctx context.Context, ix *Indexer, contentType string, rows []T,
	id func(T) int64, text func(T) string, force bool,
) (int, error) {
	log := logger.FromContext(ctx).With(zap.String("content_type", contentType))

	pending := make([]rag.ContentEmbedding, 0, len(rows))
	for _, row := range rows {
		if !force {
			exists, err := ix.store.Exists(ctx, ix.model, contentType, id(row))
			if err != nil {
				return 0, fmt.Errorf("check %s %d: %w", contentType, id(row), err)
			}
			if exists {
				continue
			}
		}
		pending = append(pending, rag.ContentEmbedding{
			ContentType:  contentType,
			ContentID:    id(row),
			TextContent:  text(row),
			ModelVersion: ix.model,
		})
	}

	saved := 0
	for offset := 0; offset < len(pending); offset += ix.batchSize {
		chunk := pending[offset:min(offset+ix.batchSize, len(pending))]

		texts := make([]string, len(chunk))
		for i, e := range chunk {
			texts[i] = e.TextContent
		}

		res, err := domain.BatchEmbed(ctx, ix.embedder, texts)
		if err == nil && len(res.Embeddings) != len(chunk) {
			err = fmt.Errorf("got %d vectors for %d texts: %w", len(res.Embeddings), len(chunk), domain.ErrEmbeddingProviderError)
		}
		if err != nil {
			if ctx.Err() != nil {
				return saved, fmt.Errorf("embed %s: %w", contentType, ctx.Err())
			}
			log.Error("embedding batch failed, skipping", zap.Int("offset", offset), zap.Int("size", len(chunk)), zap.Error(err))
			continue
		}
		domain.UsageFromContext(ctx).AddEmbeddingTokens(res.TotalTokens)

		for i := range chunk {
			chunk[i].Embedding = res.Embeddings[i]
		}
		if err := ix.store.Save(ctx, chunk); err != nil {
			return saved, fmt.Errorf("save %s embeddings: %w", contentType, err)
		}
		saved += len(chunk)
		log.Debug("embedding batch saved", zap.Int("saved", saved), zap.Int("pending", len(pending)))
	}
	return saved, nil
}
