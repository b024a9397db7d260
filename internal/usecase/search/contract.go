package search

import (
	"context"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog"
)

// MovieLister reads every movie in storage order.
type MovieLister interface {
	ListMovies(ctx context.Context) ([]catalog.Movie, error)
}

// CharacterLister reads every character in storage order.
type CharacterLister interface {
	ListCharacters(ctx context.Context) ([]catalog.Character, error)
}

// AttractionLister reads every attraction in storage order.
type AttractionLister interface {
	ListAttractions(ctx context.Context) ([]catalog.Attraction, error)
}

// Recorder observes how many entities matched per category.
type Recorder interface {
	ObserveCategoryMatches(category string, total int64)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCategoryMatches(string, int64) {}
