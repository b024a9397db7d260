package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/catalogd/internal/domain"
	domcat "github.com/kailas-cloud/catalogd/internal/domain/catalog"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
	domrl "github.com/kailas-cloud/catalogd/internal/domain/ratelimit"
	"github.com/kailas-cloud/catalogd/internal/domain/search/capability"
	"github.com/kailas-cloud/catalogd/internal/domain/search/result"
	cataloguc "github.com/kailas-cloud/catalogd/internal/usecase/catalog"
	embeddinguc "github.com/kailas-cloud/catalogd/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/catalogd/internal/usecase/health"
	ratelimituc "github.com/kailas-cloud/catalogd/internal/usecase/ratelimit"
	searchuc "github.com/kailas-cloud/catalogd/internal/usecase/search"
)

const testAdminKey = "admin-secret"

var testResetAt = time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

type mockSearch struct {
	resp    result.Response
	err     error
	caps    capability.Config
	lastReq searchuc.Request
}

func (m *mockSearch) Search(_ context.Context, req searchuc.Request) (result.Response, error) {
	m.lastReq = req
	return m.resp, m.err
}

func (m *mockSearch) Capabilities() capability.Config { return m.caps }

type mockRAG struct {
	enabled  bool
	answer   rag.Answer
	err      error
	lastQ    rag.Query
	calls    int
	cleared  int
	clearErr error
}

func (m *mockRAG) Query(ctx context.Context, q rag.Query) (rag.Answer, error) {
	m.calls++
	m.lastQ = q
	if m.err == nil && !m.answer.Cached {
		u := domain.UsageFromContext(ctx)
		u.AddEmbeddingTokens(6)
		u.AddGenerationTokens(120)
	}
	return m.answer, m.err
}

func (m *mockRAG) Enabled() bool     { return m.enabled }
func (m *mockRAG) SetEnabled(v bool) { m.enabled = v }

func (m *mockRAG) ClearCache(context.Context) (int, error) { return m.cleared, m.clearErr }

type mockLimiter struct {
	usage      domrl.Usage
	allowErr   error
	usageErr   error
	unlockCode string
	lastCaller ratelimituc.Caller
}

func (m *mockLimiter) Allow(_ context.Context, c ratelimituc.Caller) (domrl.Usage, error) {
	m.lastCaller = c
	return m.usage, m.allowErr
}

func (m *mockLimiter) Usage(_ context.Context, c ratelimituc.Caller) (domrl.Usage, error) {
	m.lastCaller = c
	return m.usage, m.usageErr
}

func (m *mockLimiter) UnlockPremium(_ context.Context, c ratelimituc.Caller, code string) (domrl.Usage, error) {
	m.lastCaller = c
	if code != m.unlockCode {
		return domrl.Usage{}, ratelimituc.ErrInvalidAccessCode
	}
	return domrl.NewUsage(domrl.TierPremium, m.usage.Used(), 100, 100-m.usage.Used(), testResetAt), nil
}

type mockCatalog struct {
	movies      []domcat.Movie
	characters  []domcat.Character
	attractions []domcat.Attraction
	listErr     error
	reseeded    string
	reseedErr   error
}

func (m *mockCatalog) ListMovies(context.Context) ([]domcat.Movie, error) {
	return m.movies, m.listErr
}

func (m *mockCatalog) ListCharacters(context.Context) ([]domcat.Character, error) {
	return m.characters, m.listErr
}

func (m *mockCatalog) ListAttractions(context.Context) ([]domcat.Attraction, error) {
	return m.attractions, m.listErr
}

func (m *mockCatalog) GetMovie(_ context.Context, id int64) (domcat.Movie, error) {
	return find(m.movies, id, func(v domcat.Movie) int64 { return v.ID })
}

func (m *mockCatalog) GetCharacter(_ context.Context, id int64) (domcat.Character, error) {
	return find(m.characters, id, func(v domcat.Character) int64 { return v.ID })
}

func (m *mockCatalog) GetAttraction(_ context.Context, id int64) (domcat.Attraction, error) {
	return find(m.attractions, id, func(v domcat.Attraction) int64 { return v.ID })
}

func (m *mockCatalog) Reseed(_ context.Context, entity string) (cataloguc.SeedReport, error) {
	m.reseeded = entity
	if m.reseedErr != nil {
		return nil, m.reseedErr
	}
	return cataloguc.SeedReport{cataloguc.EntityMovies: len(m.movies)}, nil
}

func find[T any](items []T, id int64, key func(T) int64) (T, error) {
	for _, it := range items {
		if key(it) == id {
			return it, nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

type mockIndexer struct {
	report embeddinguc.Report
	err    error
	force  bool
}

func (m *mockIndexer) GenerateAll(_ context.Context, force bool) (embeddinguc.Report, error) {
	m.force = force
	return m.report, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type testEnv struct {
	search  *mockSearch
	rag     *mockRAG
	limiter *mockLimiter
	catalog *mockCatalog
	indexer *mockIndexer
	health  *mockHealth
	router  http.Handler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		search:  &mockSearch{resp: result.NewResponse()},
		rag:     &mockRAG{enabled: true},
		limiter: &mockLimiter{usage: domrl.NewUsage(domrl.TierFree, 3, 10, 7, testResetAt)},
		catalog: &mockCatalog{},
		indexer: &mockIndexer{},
		health:  &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
	}
	srv := NewServer(Services{
		Search:  env.search,
		RAG:     env.rag,
		Limiter: env.limiter,
		Catalog: env.catalog,
		Indexer: env.indexer,
		Health:  env.health,
	})
	r := chi.NewRouter()
	srv.Register(r, RouterOptions{AdminAPIKeys: []string{testAdminKey}})
	env.router = r
	return env
}

func (e *testEnv) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
