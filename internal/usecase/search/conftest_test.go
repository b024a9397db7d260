package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog"
	"github.com/kailas-cloud/catalogd/internal/domain/search/capability"
)

// --- Mocks ---

type mockCatalog struct {
	movies      []catalog.Movie
	characters  []catalog.Character
	attractions []catalog.Attraction
	err         error

	mu    sync.Mutex
	calls map[string]int
}

func (m *mockCatalog) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockCatalog) called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockCatalog) ListMovies(_ context.Context) ([]catalog.Movie, error) {
	m.record("movies")
	return m.movies, m.err
}

func (m *mockCatalog) ListCharacters(_ context.Context) ([]catalog.Character, error) {
	m.record("characters")
	return m.characters, m.err
}

func (m *mockCatalog) ListAttractions(_ context.Context) ([]catalog.Attraction, error) {
	m.record("attractions")
	return m.attractions, m.err
}

type mockRecorder struct {
	mu     sync.Mutex
	totals map[string]int64
}

func (m *mockRecorder) ObserveCategoryMatches(category string, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.totals == nil {
		m.totals = make(map[string]int64)
	}
	m.totals[category] = total
}

// --- Fixtures ---

type namedScope struct {
	name  string
	scope capability.Scope
}

func scope(name string, fields ...string) namedScope {
	return namedScope{name: name, scope: capability.Scope{Label: name, Fields: fields}}
}

func category(label string, scopes ...namedScope) capability.Category {
	c := capability.Category{Label: label}
	for _, s := range scopes {
		c.Scopes.Set(s.name, s.scope)
	}
	return c
}

// testCaps mirrors config/local.yaml.
func testCaps() capability.Config {
	cfg := capability.Config{Version: 1}
	cfg.Categories.Set(CategoryMovies, category("Movies",
		scope("basic", "title", "short_description"),
		scope("extended", "title", "short_description", "long_description", "hidden_tags"),
	))
	cfg.Categories.Set(CategoryCharacters, category("Characters",
		scope("basic", "name", "short_description"),
	))
	cfg.Categories.Set(CategoryParks, category("Parks",
		scope("basic", "name", "short_description", "theme"),
	))
	return cfg
}

func newTestService(cat *mockCatalog, rec Recorder) *Service {
	return New(testCaps(), zap.NewNop(), rec,
		MovieSource(cat), CharacterSource(cat), ParkSource(cat))
}
