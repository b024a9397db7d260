package rag

import (
	"strings"

	"github.com/kailas-cloud/catalogd/internal/domain/catalog"
)

// docBuilder writes "Label: value" lines and blank-line separated paragraphs,
// skipping blank values.
type docBuilder struct {
	strings.Builder
}

func (b *docBuilder) line(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func (b *docBuilder) paragraph(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b.WriteByte('\n')
	b.WriteString(text)
	b.WriteByte('\n')
}

func (b *docBuilder) text() string {
	return strings.TrimSpace(b.String())
}

// MovieText renders the document embedded for a movie.
func MovieText(m catalog.Movie) string {
	var b docBuilder
	b.line("Movie", m.Title)
	b.line("Year", m.CreationYearString())
	b.paragraph(m.ShortDescription)
	b.paragraph(m.LongDescription)
	if m.MovieRating != "" {
		b.WriteByte('\n')
		b.line("Rating", m.MovieRating)
	}
	return b.text()
}

// CharacterText renders the document embedded for a character.
func CharacterText(c catalog.Character) string {
	var b docBuilder
	b.line("Character", c.Name)
	b.line("Species", c.Species)
	b.line("Type", c.CharacterType)
	b.paragraph(c.ShortDescription)
	b.paragraph(c.LongDescription)
	if c.Franchise != "" {
		b.WriteByte('\n')
		b.line("Franchise", c.Franchise)
	}
	b.line("First Appearance", c.FirstAppearance)
	return b.text()
}

// AttractionText renders the document embedded for a park attraction.
func AttractionText(a catalog.Attraction) string {
	var b docBuilder
	b.line("Attraction", a.Name)
	b.line("Park", a.ParkURLID)
	b.line("Land", a.LandArea)
	b.line("Type", a.AttractionType)
	b.line("Thrill Level", a.ThrillLevel)
	b.line("Theme", a.Theme)
	b.paragraph(a.ShortDescription)
	return b.text()
}
