package catalog

import "strconv"

// Movie is a catalog film.
type Movie struct {
	ID               int64  `json:"id"`
	URLID            string `json:"url_id"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
	CreationYear     *int   `json:"creation_year,omitempty"`
	HiddenTags       string `json:"hidden_tags"`
	MovieRating      string `json:"movie_rating"`
	Image1           string `json:"image_1"`
	Image2           string `json:"image_2"`
}

// ImageURL returns the first available poster.
func (m Movie) ImageURL() string { return FirstNonBlank(m.Image1, m.Image2) }

// DetailPath returns the UI route of the movie, or "" without a url id.
func (m Movie) DetailPath() string { return detailPath("/movies/", m.URLID) }

// CreationYearString formats the creation year, or "" when unknown.
func (m Movie) CreationYearString() string {
	if m.CreationYear == nil {
		return ""
	}
	return strconv.Itoa(*m.CreationYear)
}
