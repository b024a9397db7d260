package catalog

import (
	"context"

	domcat "github.com/kailas-cloud/catalogd/internal/domain/catalog"
)

// Repository reads and replaces catalog rows.
type Repository interface {
	ListMovies(ctx context.Context) ([]domcat.Movie, error)
	ListCharacters(ctx context.Context) ([]domcat.Character, error)
	ListAttractions(ctx context.Context) ([]domcat.Attraction, error)
	GetMovie(ctx context.Context, id int64) (domcat.Movie, error)
	GetCharacter(ctx context.Context, id int64) (domcat.Character, error)
	GetAttraction(ctx context.Context, id int64) (domcat.Attraction, error)
	ReplaceMovies(ctx context.Context, rows []domcat.Movie) error
	ReplaceCharacters(ctx context.Context, rows []domcat.Character) error
	ReplaceAttractions(ctx context.Context, rows []domcat.Attraction) error
}
