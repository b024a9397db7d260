package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/catalog"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
)

type mockCatalog struct {
	movies      []catalog.Movie
	characters  []catalog.Character
	attractions []catalog.Attraction
	err         error
}

func (m *mockCatalog) ListMovies(context.Context) ([]catalog.Movie, error) { return m.movies, m.err }
func (m *mockCatalog) ListCharacters(context.Context) ([]catalog.Character, error) {
	return m.characters, m.err
}
func (m *mockCatalog) ListAttractions(context.Context) ([]catalog.Attraction, error) {
	return m.attractions, nil
}

type mockStore struct {
	saved   map[string]rag.ContentEmbedding
	deleted int
	saveErr error
}

func newMockStore() *mockStore {
	return &mockStore{saved: map[string]rag.ContentEmbedding{}}
}

func key(model, contentType string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", model, contentType, id)
}

func (m *mockStore) Save(_ context.Context, embs []rag.ContentEmbedding) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, e := range embs {
		m.saved[key(e.ModelVersion, e.ContentType, e.ContentID)] = e
	}
	return nil
}

func (m *mockStore) Exists(_ context.Context, model, contentType string, id int64) (bool, error) {
	_, ok := m.saved[key(model, contentType, id)]
	return ok, nil
}

func (m *mockStore) DeleteAll(context.Context) (int, error) {
	n := len(m.saved)
	m.deleted += n
	m.saved = map[string]rag.ContentEmbedding{}
	return n, nil
}

// failingOn rejects batches containing a marker text.
type failingOn struct {
	mockEmbedder
	marker string
}

func (f *failingOn) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	for _, t := range texts {
		if strings.Contains(t, f.marker) {
			return domain.BatchEmbeddingResult{}, domain.ErrEmbeddingProviderError
		}
	}
	return f.mockEmbedder.BatchEmbed(ctx, texts)
}

func testCatalog() *mockCatalog {
	return &mockCatalog{
		movies:      []catalog.Movie{{ID: 1, Title: "Frozen"}, {ID: 2, Title: "Moana"}},
		characters:  []catalog.Character{{ID: 10, Name: "Elsa"}},
		attractions: []catalog.Attraction{{ID: 100, Name: "Space Mountain"}, {ID: 101, Name: "Haunted Mansion"}, {ID: 102, Name: "Tea Cups"}},
	}
}

func TestGenerateAll(t *testing.T) {
	store := newMockStore()
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 0}, TotalTokens: 2}}
	ix := NewIndexer(testCatalog(), store, emb, "m1")

	ctx, usage := domain.NewContextWithUsage(context.Background())
	r, err := ix.GenerateAll(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Report{CharactersProcessed: 1, MoviesProcessed: 2, ParksProcessed: 3, TotalProcessed: 6}
	if r != want {
		t.Errorf("expected %+v, got %+v", want, r)
	}
	e, ok := store.saved["m1:character:10"]
	if !ok {
		t.Fatalf("missing character embedding, saved %v", store.saved)
	}
	if e.TextContent != "Character: Elsa" || len(e.Embedding) != 2 {
		t.Errorf("unexpected embedding %+v", e)
	}
	if _, ok := store.saved["m1:park:100"]; !ok {
		t.Error("attractions must be stored with content type park")
	}
	if usage.EmbeddingTokens != 12 {
		t.Errorf("expected 12 embedding tokens, got %d", usage.EmbeddingTokens)
	}
}

func TestGenerateAll_SkipsExisting(t *testing.T) {
	store := newMockStore()
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ix := NewIndexer(testCatalog(), store, emb, "m1")
	ctx := context.Background()

	if _, err := ix.GenerateAll(ctx, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, err := ix.GenerateAll(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalProcessed != 0 {
		t.Errorf("expected nothing processed on second run, got %+v", r)
	}

	// A new model does not see the old vectors.
	r, err = NewIndexer(testCatalog(), store, emb, "m2").GenerateAll(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalProcessed != 6 {
		t.Errorf("expected 6 for a new model, got %+v", r)
	}
}

func TestGenerateAll_Force(t *testing.T) {
	store := newMockStore()
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ix := NewIndexer(testCatalog(), store, emb, "m1")
	ctx := context.Background()

	_, _ = ix.GenerateAll(ctx, false)
	r, err := ix.GenerateAll(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.deleted != 6 {
		t.Errorf("expected 6 deleted, got %d", store.deleted)
	}
	if r.TotalProcessed != 6 {
		t.Errorf("expected 6 regenerated, got %+v", r)
	}
}

func TestGenerateAll_SkipsFailedBatch(t *testing.T) {
	store := newMockStore()
	emb := &failingOn{mockEmbedder: mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}, marker: "Haunted"}
	ix := NewIndexer(testCatalog(), store, emb, "m1")
	ix = ix.WithBatchSize(1)

	r, err := ix.GenerateAll(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ParksProcessed != 2 || r.TotalProcessed != 5 {
		t.Errorf("expected failed item skipped, got %+v", r)
	}
	if _, ok := store.saved["m1:park:101"]; ok {
		t.Error("failed item must not be saved")
	}
}

func TestGenerateAll_Errors(t *testing.T) {
	emb := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}

	listErr := errors.New("list failed")
	c := testCatalog()
	c.err = listErr
	if _, err := NewIndexer(c, newMockStore(), emb, "m").GenerateAll(context.Background(), false); !errors.Is(err, listErr) {
		t.Errorf("expected list error, got %v", err)
	}

	saveErr := errors.New("save failed")
	store := newMockStore()
	store.saveErr = saveErr
	if _, err := NewIndexer(testCatalog(), store, emb, "m").GenerateAll(context.Background(), false); !errors.Is(err, saveErr) {
		t.Errorf("expected save error, got %v", err)
	}
}

func TestGenerateAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	emb := &mockEmbedder{batchErr: context.Canceled}
	_, err := NewIndexer(testCatalog(), newMockStore(), emb, "m").GenerateAll(ctx, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
