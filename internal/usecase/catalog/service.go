// Package catalog serves catalog rows and loads them from seed files.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	domcat "github.com/kailas-cloud/catalogd/internal/domain/catalog"
	"github.com/kailas-cloud/catalogd/internal/logger"
)

// Seed file names inside the seed directory.
const (
	MoviesFile      = "movies.json"
	CharactersFile  = "characters.json"
	AttractionsFile = "attractions.json"
)

// Entity names accepted by Reseed.
const (
	EntityMovies      = "movies"
	EntityCharacters  = "characters"
	EntityAttractions = "attractions"
)

// SeedReport counts rows loaded per entity. Skipped entities are absent.
type SeedReport map[string]int

// Service handles catalog reads and seeding.
type Service struct {
	repo  Repository
	seeds fs.FS
}

// New creates a catalog service. seeds can be nil when seeding is not configured.
func New(repo Repository, seeds fs.FS) *Service {
	return &Service{repo: repo, seeds: seeds}
}

// ListMovies returns every movie.
func (s *Service) ListMovies(ctx context.Context) ([]domcat.Movie, error) {
	return s.repo.ListMovies(ctx) //nolint:wrapcheck // thin pass-through
}

// ListCharacters returns every character.
func (s *Service) ListCharacters(ctx context.Context) ([]domcat.Character, error) {
	return s.repo.ListCharacters(ctx) //nolint:wrapcheck // thin pass-through
}

// ListAttractions returns every attraction.
func (s *Service) ListAttractions(ctx context.Context) ([]domcat.Attraction, error) {
	return s.repo.ListAttractions(ctx) //nolint:wrapcheck // thin pass-through
}

// GetMovie returns one movie or ErrNotFound.
func (s *Service) GetMovie(ctx context.Context, id int64) (domcat.Movie, error) {
	return s.repo.GetMovie(ctx, id) //nolint:wrapcheck // thin pass-through
}

// GetCharacter returns one character or ErrNotFound.
func (s *Service) GetCharacter(ctx context.Context, id int64) (domcat.Character, error) {
	return s.repo.GetCharacter(ctx, id) //nolint:wrapcheck // thin pass-through
}

// GetAttraction returns one attraction or ErrNotFound.
func (s *Service) GetAttraction(ctx context.Context, id int64) (domcat.Attraction, error) {
	return s.repo.GetAttraction(ctx, id) //nolint:wrapcheck // thin pass-through
}

// SeedIfEmpty loads every entity whose collection is empty. Missing seed files are skipped.
func (s *Service) SeedIfEmpty(ctx context.Context) (SeedReport, error) {
	return s.seed(ctx, allEntities, true)
}

// Reseed replaces the rows of entity (or of all entities when empty) with the seed file contents.
func (s *Service) Reseed(ctx context.Context, entity string) (SeedReport, error) {
	entities := allEntities
	if entity != "" {
		if _, ok := seeders[entity]; !ok {
			return nil, fmt.Errorf("unknown entity %q: %w", entity, domain.ErrInvalidQuery)
		}
		entities = []string{entity}
	}
	return s.seed(ctx, entities, false)
}

var allEntities = []string{EntityMovies, EntityCharacters, EntityAttractions}

type seeder struct {
	file    string
	count   func(ctx context.Context, r Repository) (int, error)
	replace func(ctx context.Context, r Repository, data []byte) (int, error)
}

var seeders = map[string]seeder{
	EntityMovies: {
		file:    MoviesFile,
		count:   counter(Repository.ListMovies),
		replace: replacer(Repository.ReplaceMovies),
	},
	EntityCharacters: {
		file:    CharactersFile,
		count:   counter(Repository.ListCharacters),
		replace: replacer(Repository.ReplaceCharacters),
	},
	EntityAttractions: {
		file:    AttractionsFile,
		count:   counter(Repository.ListAttractions),
		replace: replacer(Repository.ReplaceAttractions),
	},
}

func counter[T any](list func(Repository, context.Context) ([]T, error)) func(context.Context, Repository) (int, error) {
	return func(ctx context.Context, r Repository) (int, error) {
		rows, err := list(r, ctx)
		return len(rows), err
	}
}

func replacer[T any](replace func(Repository, context.Context, []T) error) func(context.Context, Repository, []byte) (int, error) {
	return func(ctx context.Context, r Repository, data []byte) (int, error) {
		var rows []T
		if err := json.Unmarshal(data, &rows); err != nil {
			return 0, fmt.Errorf("decode: %w", err)
		}
		if err := replace(r, ctx, rows); err != nil {
			return 0, err
		}
		return len(rows), nil
	}
}

func (s *Service) seed(ctx context.Context, entities []string, onlyIfEmpty bool) (SeedReport, error) {
	if s.seeds == nil {
		return nil, fmt.Errorf("seed directory not configured: %w", domain.ErrNotFound)
	}
	log := logger.FromContext(ctx)
	report := SeedReport{}

	for _, name := range entities {
		sd := seeders[name]

		if onlyIfEmpty {
			n, err := sd.count(ctx, s.repo)
			if err != nil {
				return report, fmt.Errorf("count %s: %w", name, err)
			}
			if n > 0 {
				log.Debug("catalog already seeded", zap.String("entity", name), zap.Int("rows", n))
				continue
			}
		}

		data, err := fs.ReadFile(s.seeds, sd.file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("seed file missing", zap.String("entity", name), zap.String("file", sd.file))
				continue
			}
			return report, fmt.Errorf("read %s: %w", sd.file, err)
		}

		n, err := sd.replace(ctx, s.repo, data)
		if err != nil {
			return report, fmt.Errorf("seed %s: %w", name, err)
		}
		report[name] = n
		log.Info("catalog seeded", zap.String("entity", name), zap.Int("rows", n))
	}
	return report, nil
}
