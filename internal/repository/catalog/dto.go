package catalog

import (
	"fmt"
	"strconv"

	domcat "github.com/kailas-cloud/catalogd/internal/domain/catalog"
)

// Hash field names match the seed JSON keys.
const (
	fieldID               = "id"
	fieldURLID            = "url_id"
	fieldTitle            = "title"
	fieldName             = "name"
	fieldShortDescription = "short_description"
	fieldLongDescription  = "long_description"
)

func buildMovieHash(m domcat.Movie) map[string]string {
	h := map[string]string{
		fieldID:               strconv.FormatInt(m.ID, 10),
		fieldURLID:            m.URLID,
		fieldTitle:            m.Title,
		fieldShortDescription: m.ShortDescription,
		fieldLongDescription:  m.LongDescription,
		"hidden_tags":         m.HiddenTags,
		"movie_rating":        m.MovieRating,
		"image_1":             m.Image1,
		"image_2":             m.Image2,
	}
	if m.CreationYear != nil {
		h["creation_year"] = strconv.Itoa(*m.CreationYear)
	}
	return h
}

func parseMovieHash(h map[string]string) (domcat.Movie, error) {
	id, err := parseID(h)
	if err != nil {
		return domcat.Movie{}, err
	}
	m := domcat.Movie{
		ID:               id,
		URLID:            h[fieldURLID],
		Title:            h[fieldTitle],
		ShortDescription: h[fieldShortDescription],
		LongDescription:  h[fieldLongDescription],
		HiddenTags:       h["hidden_tags"],
		MovieRating:      h["movie_rating"],
		Image1:           h["image_1"],
		Image2:           h["image_2"],
	}
	if raw, ok := h["creation_year"]; ok && raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return domcat.Movie{}, fmt.Errorf("parse creation_year %q: %w", raw, err)
		}
		m.CreationYear = &year
	}
	return m, nil
}

func buildCharacterHash(c domcat.Character) map[string]string {
	return map[string]string{
		fieldID:               strconv.FormatInt(c.ID, 10),
		fieldURLID:            c.URLID,
		fieldName:             c.Name,
		fieldShortDescription: c.ShortDescription,
		fieldLongDescription:  c.LongDescription,
		"first_appearance":    c.FirstAppearance,
		"franchise":           c.Franchise,
		"character_type":      c.CharacterType,
		"species":             c.Species,
		"profile_image_1":     c.ProfileImage1,
		"background_image_1":  c.BackgroundImage1,
	}
}

func parseCharacterHash(h map[string]string) (domcat.Character, error) {
	id, err := parseID(h)
	if err != nil {
		return domcat.Character{}, err
	}
	return domcat.Character{
		ID:               id,
		URLID:            h[fieldURLID],
		Name:             h[fieldName],
		ShortDescription: h[fieldShortDescription],
		LongDescription:  h[fieldLongDescription],
		FirstAppearance:  h["first_appearance"],
		Franchise:        h["franchise"],
		CharacterType:    h["character_type"],
		Species:          h["species"],
		ProfileImage1:    h["profile_image_1"],
		BackgroundImage1: h["background_image_1"],
	}, nil
}

func buildAttractionHash(a domcat.Attraction) map[string]string {
	return map[string]string{
		fieldID:               strconv.FormatInt(a.ID, 10),
		fieldURLID:            a.URLID,
		fieldName:             a.Name,
		fieldShortDescription: a.ShortDescription,
		"park_url_id":         a.ParkURLID,
		"land_area":           a.LandArea,
		"attraction_type":     a.AttractionType,
		"thrill_level":        a.ThrillLevel,
		"theme":               a.Theme,
		"image_1":             a.Image1,
		"image_2":             a.Image2,
		"image_3":             a.Image3,
		"image_4":             a.Image4,
		"image_5":             a.Image5,
	}
}

func parseAttractionHash(h map[string]string) (domcat.Attraction, error) {
	id, err := parseID(h)
	if err != nil {
		return domcat.Attraction{}, err
	}
	return domcat.Attraction{
		ID:               id,
		URLID:            h[fieldURLID],
		Name:             h[fieldName],
		ShortDescription: h[fieldShortDescription],
		ParkURLID:        h["park_url_id"],
		LandArea:         h["land_area"],
		AttractionType:   h["attraction_type"],
		ThrillLevel:      h["thrill_level"],
		Theme:            h["theme"],
		Image1:           h["image_1"],
		Image2:           h["image_2"],
		Image3:           h["image_3"],
		Image4:           h["image_4"],
		Image5:           h["image_5"],
	}, nil
}

func parseID(h map[string]string) (int64, error) {
	raw, ok := h[fieldID]
	if !ok {
		return 0, fmt.Errorf("missing %s field", fieldID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", raw, err)
	}
	return id, nil
}
