package rag

import (
	"context"
	"errors"
	"sync"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
)

// --- Mocks ---

type mockEmbedder struct {
	vec    []float32
	tokens int
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(ctx context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if err := ctx.Err(); err != nil {
		return domain.EmbeddingResult{}, err
	}
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.tokens}, nil
}

type mockGenerator struct {
	text   string
	tokens int
	err    error
	prompt string
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (domain.GenerationResult, error) {
	m.calls++
	m.prompt = prompt
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return domain.GenerationResult{Text: m.text, TotalTokens: m.tokens}, nil
}

type mockLister struct {
	embs     []rag.ContentEmbedding
	err      error
	gotModel string
	gotType  string
}

func (m *mockLister) List(_ context.Context, model, contentType string) ([]rag.ContentEmbedding, error) {
	m.gotModel, m.gotType = model, contentType
	if m.err != nil {
		return nil, m.err
	}
	var out []rag.ContentEmbedding
	for _, e := range m.embs {
		if contentType == "" || e.ContentType == contentType {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockCache struct {
	mu      sync.Mutex
	entries map[string]rag.Answer
	getErr  error
	cleared int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]rag.Answer{}}
}

func (m *mockCache) Get(_ context.Context, key string) (rag.Answer, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return rag.Answer{}, false, m.getErr
	}
	a, ok := m.entries[key]
	return a, ok, nil
}

func (m *mockCache) Put(_ context.Context, key string, a rag.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = a
	return nil
}

func (m *mockCache) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = map[string]rag.Answer{}
	m.cleared++
	return n, nil
}

var errProvider = errors.New("provider down")

func testEmbeddings() []rag.ContentEmbedding {
	return []rag.ContentEmbedding{
		{ContentType: "movie", ContentID: 1, TextContent: "Movie: Frozen\nYear: 2013", Embedding: []float32{1, 0}, ModelVersion: "m"},
		{ContentType: "character", ContentID: 2, TextContent: "Character: Elsa\nSpecies: Human", Embedding: []float32{0.8, 0.6}, ModelVersion: "m"},
		{ContentType: "park", ContentID: 3, TextContent: "Attraction: Space Mountain", Embedding: []float32{0, 1}, ModelVersion: "m"},
	}
}
