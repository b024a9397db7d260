package chi

import (
	"context"

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

// SearchService runs keyword searches.
type SearchService interface {
	Search(ctx context.Context, req searchuc.Request) (result.Response, error)
	Capabilities() capability.Config
}

// RAGService answers questions about the catalog.
type RAGService interface {
	Query(ctx context.Context, q rag.Query) (rag.Answer, error)
	Enabled() bool
	SetEnabled(enabled bool)
	ClearCache(ctx context.Context) (int, error)
}

// RateLimiter meters question answering per session and address.
type RateLimiter interface {
	Allow(ctx context.Context, c ratelimituc.Caller) (domrl.Usage, error)
	Usage(ctx context.Context, c ratelimituc.Caller) (domrl.Usage, error)
	UnlockPremium(ctx context.Context, c ratelimituc.Caller, code string) (domrl.Usage, error)
}

// CatalogService reads and reloads catalog rows.
type CatalogService interface {
	ListMovies(ctx context.Context) ([]domcat.Movie, error)
	ListCharacters(ctx context.Context) ([]domcat.Character, error)
	ListAttractions(ctx context.Context) ([]domcat.Attraction, error)
	GetMovie(ctx context.Context, id int64) (domcat.Movie, error)
	GetCharacter(ctx context.Context, id int64) (domcat.Character, error)
	GetAttraction(ctx context.Context, id int64) (domcat.Attraction, error)
	Reseed(ctx context.Context, entity string) (cataloguc.SeedReport, error)
}

// EmbeddingIndexer (re)generates content embeddings.
type EmbeddingIndexer interface {
	GenerateAll(ctx context.Context, force bool) (embeddinguc.Report, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
