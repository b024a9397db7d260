// Package embedding stores content embeddings, one hash per (model, content type, content id).
package embedding

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
)

// store is the consumer interface for content embeddings (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the embedding store used by RAG retrieval and the indexer.
type Repo struct {
	store  store
	prefix string
}

// New creates an embedding repository. prefix namespaces every key.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix + "embedding:"}
}

// Save writes embeddings, replacing any stored vector for the same content and model.
func (r *Repo) Save(ctx context.Context, embs []rag.ContentEmbedding) error {
	if len(embs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(embs))
	for i, e := range embs {
		items[i] = db.HashSetItem{
			Key:    r.key(e.ModelVersion, e.ContentType, e.ContentID),
			Fields: buildHashFields(e),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d embeddings: %w", len(embs), err)
	}
	return nil
}

// Exists reports whether content already has an embedding for model.
func (r *Repo) Exists(ctx context.Context, model, contentType string, contentID int64) (bool, error) {
	key := r.key(model, contentType, contentID)
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return ok, nil
}

// List returns every embedding of model, optionally narrowed to one content type.
func (r *Repo) List(ctx context.Context, model, contentType string) ([]rag.ContentEmbedding, error) {
	typ := contentType
	if typ == "" {
		typ = "*"
	}
	keys, err := r.store.Scan(ctx, r.prefix+model+":"+typ+":*")
	if err != nil {
		return nil, fmt.Errorf("scan embeddings: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}

	out := make([]rag.ContentEmbedding, 0, len(hashes))
	for i, h := range hashes {
		if len(h) == 0 {
			continue
		}
		e, err := parseHashFields(h)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", keys[i], err)
		}
		out = append(out, e)
	}
	return out, nil
}

// DeleteAll removes every stored embedding for every model. Returns the number removed.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("scan embeddings: %w", err)
	}
	if err := r.store.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("delete embeddings: %w", err)
	}
	return len(keys), nil
}

func (r *Repo) key(model, contentType string, contentID int64) string {
	return r.prefix + model + ":" + contentType + ":" + strconv.FormatInt(contentID, 10)
}
