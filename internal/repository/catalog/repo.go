// Package catalog stores catalog entities as one hash per entity.
package catalog

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/domain"
	domcat "github.com/kailas-cloud/catalogd/internal/domain/catalog"
)

// store is the consumer interface for catalog rows (ISP).
type store interface {
	ReplaceHashes(ctx context.Context, stale []string, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the catalog listers used by search, embedding and the HTTP layer.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository. prefix namespaces every key (e.g. "catalogd:").
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

type kind[T any] struct {
	name  string
	id    func(T) int64
	build func(T) map[string]string
	parse func(map[string]string) (T, error)
}

var (
	movies = kind[domcat.Movie]{
		name:  "movie",
		id:    func(m domcat.Movie) int64 { return m.ID },
		build: buildMovieHash,
		parse: parseMovieHash,
	}
	characters = kind[domcat.Character]{
		name:  "character",
		id:    func(c domcat.Character) int64 { return c.ID },
		build: buildCharacterHash,
		parse: parseCharacterHash,
	}
	attractions = kind[domcat.Attraction]{
		name:  "attraction",
		id:    func(a domcat.Attraction) int64 { return a.ID },
		build: buildAttractionHash,
		parse: parseAttractionHash,
	}
)

// ListMovies returns every movie ordered by id.
func (r *Repo) ListMovies(ctx context.Context) ([]domcat.Movie, error) {
	return listAll(ctx, r, movies)
}

// ListCharacters returns every character ordered by id.
func (r *Repo) ListCharacters(ctx context.Context) ([]domcat.Character, error) {
	return listAll(ctx, r, characters)
}

// ListAttractions returns every attraction ordered by id.
func (r *Repo) ListAttractions(ctx context.Context) ([]domcat.Attraction, error) {
	return listAll(ctx, r, attractions)
}

// GetMovie returns a movie by id.
func (r *Repo) GetMovie(ctx context.Context, id int64) (domcat.Movie, error) {
	return getOne(ctx, r, movies, id)
}

// GetCharacter returns a character by id.
func (r *Repo) GetCharacter(ctx context.Context, id int64) (domcat.Character, error) {
	return getOne(ctx, r, characters, id)
}

// GetAttraction returns an attraction by id.
func (r *Repo) GetAttraction(ctx context.Context, id int64) (domcat.Attraction, error) {
	return getOne(ctx, r, attractions, id)
}

// ReplaceMovies drops every stored movie and writes rows.
func (r *Repo) ReplaceMovies(ctx context.Context, rows []domcat.Movie) error {
	return replaceAll(ctx, r, movies, rows)
}

// ReplaceCharacters drops every stored character and writes rows.
func (r *Repo) ReplaceCharacters(ctx context.Context, rows []domcat.Character) error {
	return replaceAll(ctx, r, characters, rows)
}

// ReplaceAttractions drops every stored attraction and writes rows.
func (r *Repo) ReplaceAttractions(ctx context.Context, rows []domcat.Attraction) error {
	return replaceAll(ctx, r, attractions, rows)
}

func (r *Repo) key(kindName string, id int64) string {
	return r.prefix + kindName + ":" + strconv.FormatInt(id, 10)
}

func (r *Repo) pattern(kindName string) string {
	return r.prefix + kindName + ":*"
}

func listAll[T any](ctx context.Context, r *Repo, k kind[T]) ([]T, error) {
	keys, err := r.store.Scan(ctx, r.pattern(k.name))
	if err != nil {
		return nil, fmt.Errorf("scan %s keys: %w", k.name, err)
	}
	if len(keys) == 0 {
		return []T{}, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load %s rows: %w", k.name, err)
	}

	out := make([]T, 0, len(hashes))
	for i, h := range hashes {
		// Deleted between SCAN and HGETALL.
		if len(h) == 0 {
			continue
		}
		row, err := k.parse(h)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", keys[i], err)
		}
		out = append(out, row)
	}

	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(k.id(a), k.id(b)) })
	return out, nil
}

func getOne[T any](ctx context.Context, r *Repo, k kind[T], id int64) (T, error) {
	var zero T
	key := r.key(k.name, id)
	h, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(h) == 0 {
		return zero, fmt.Errorf("%s %d: %w", k.name, id, domain.ErrNotFound)
	}
	row, err := k.parse(h)
	if err != nil {
		return zero, fmt.Errorf("parse %s: %w", key, err)
	}
	return row, nil
}

func replaceAll[T any](ctx context.Context, r *Repo, k kind[T], rows []T) error {
	existing, err := r.store.Scan(ctx, r.pattern(k.name))
	if err != nil {
		return fmt.Errorf("scan %s keys: %w", k.name, err)
	}

	items := make([]db.HashSetItem, len(rows))
	for i, row := range rows {
		items[i] = db.HashSetItem{Key: r.key(k.name, k.id(row)), Fields: k.build(row)}
	}
	if err := r.store.ReplaceHashes(ctx, existing, items); err != nil {
		return fmt.Errorf("replace %s rows: %w", k.name, err)
	}
	return nil
}
