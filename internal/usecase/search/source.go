package search

import (
	"context"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog"
	"github.com/kailas-cloud/catalogd/internal/domain/search/result"
)

// Category names served by the built-in sources.
const (
	CategoryMovies     = "movies"
	CategoryCharacters = "characters"
	CategoryParks      = "parks"
)

// Source loads one category's entities and knows how to match them.
type Source interface {
	Category() string
	HasField(name string) bool
	Fields() []string
	// Fetch loads the entities and returns a pure matcher over them.
	Fetch(ctx context.Context) (Matcher, error)
}

// Matcher scans loaded entities for a query.
type Matcher func(q Query) result.CategoryResult

// entitySource binds a list call, field extractors and a result factory for one entity type.
type entitySource[T any] struct {
	category   string
	list       func(ctx context.Context) ([]T, error)
	fields     []string
	extractors map[string]func(T) string
	toItem     func(T) result.Item
}

func newSource[T any](
	category string,
	list func(ctx context.Context) ([]T, error),
	extractors []extractor[T],
	toItem func(T) result.Item,
) *entitySource[T] {
	s := &entitySource[T]{
		category:   category,
		list:       list,
		fields:     make([]string, 0, len(extractors)),
		extractors: make(map[string]func(T) string, len(extractors)),
		toItem:     toItem,
	}
	for _, e := range extractors {
		s.fields = append(s.fields, e.field)
		s.extractors[e.field] = e.get
	}
	return s
}

type extractor[T any] struct {
	field string
	get   func(T) string
}

func (s *entitySource[T]) Category() string { return s.category }

func (s *entitySource[T]) HasField(name string) bool {
	_, ok := s.extractors[name]
	return ok
}

func (s *entitySource[T]) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *entitySource[T]) Fetch(ctx context.Context) (Matcher, error) {
	rows, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return func(q Query) result.CategoryResult {
		return buildCategoryResult(rows, s.extractors, s.toItem, q)
	}, nil
}

// MovieSource searches movies.
func MovieSource(l MovieLister) Source {
	return newSource(CategoryMovies, l.ListMovies, []extractor[catalog.Movie]{
		{"title", func(m catalog.Movie) string { return m.Title }},
		{"short_description", func(m catalog.Movie) string { return m.ShortDescription }},
		{"long_description", func(m catalog.Movie) string { return m.LongDescription }},
		{"creation_year", catalog.Movie.CreationYearString},
		{"hidden_tags", func(m catalog.Movie) string { return m.HiddenTags }},
		{"movie_rating", func(m catalog.Movie) string { return m.MovieRating }},
	}, func(m catalog.Movie) result.Item {
		return result.Item{
			ID:           m.ID,
			Type:         catalog.TypeMovie,
			Title:        m.Title,
			ImageURL:     m.ImageURL(),
			DetailPath:   m.DetailPath(),
			CreationYear: m.CreationYear,
			MovieRating:  m.MovieRating,
		}
	})
}

// CharacterSource searches characters.
func CharacterSource(l CharacterLister) Source {
	return newSource(CategoryCharacters, l.ListCharacters, []extractor[catalog.Character]{
		{"name", func(c catalog.Character) string { return c.Name }},
		{"short_description", func(c catalog.Character) string { return c.ShortDescription }},
		{"long_description", func(c catalog.Character) string { return c.LongDescription }},
		{"first_appearance", func(c catalog.Character) string { return c.FirstAppearance }},
		{"franchise", func(c catalog.Character) string { return c.Franchise }},
		{"character_type", func(c catalog.Character) string { return c.CharacterType }},
	}, func(c catalog.Character) result.Item {
		return result.Item{
			ID:              c.ID,
			Type:            catalog.TypeCharacter,
			Title:           c.Name,
			ImageURL:        c.ImageURL(),
			DetailPath:      c.DetailPath(),
			FirstAppearance: c.FirstAppearance,
			Franchise:       c.Franchise,
		}
	})
}

// ParkSource searches park attractions.
func ParkSource(l AttractionLister) Source {
	return newSource(CategoryParks, l.ListAttractions, []extractor[catalog.Attraction]{
		{"name", func(a catalog.Attraction) string { return a.Name }},
		{"short_description", func(a catalog.Attraction) string { return a.ShortDescription }},
		{"theme", func(a catalog.Attraction) string { return a.Theme }},
		{"land_area", func(a catalog.Attraction) string { return a.LandArea }},
		{"attraction_type", func(a catalog.Attraction) string { return a.AttractionType }},
		{"thrill_level", func(a catalog.Attraction) string { return a.ThrillLevel }},
	}, func(a catalog.Attraction) result.Item {
		return result.Item{
			ID:             a.ID,
			Type:           catalog.TypeAttraction,
			Title:          a.Name,
			ImageURL:       a.ImageURL(),
			DetailPath:     a.DetailPath(),
			ParkURLID:      a.ParkURLID,
			AttractionType: a.AttractionType,
		}
	})
}
