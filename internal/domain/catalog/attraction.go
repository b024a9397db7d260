package catalog

// Attraction is a ride, show or experience inside a park.
type Attraction struct {
	ID               int64  `json:"id"`
	URLID            string `json:"url_id"`
	Name             string `json:"name"`
	ParkURLID        string `json:"park_url_id"`
	LandArea         string `json:"land_area"`
	AttractionType   string `json:"attraction_type"`
	ThrillLevel      string `json:"thrill_level"`
	Theme            string `json:"theme"`
	ShortDescription string `json:"short_description"`
	Image1           string `json:"image_1"`
	Image2           string `json:"image_2"`
	Image3           string `json:"image_3"`
	Image4           string `json:"image_4"`
	Image5           string `json:"image_5"`
}

// ImageURL returns the first of the five image slots that is set.
func (a Attraction) ImageURL() string {
	return FirstNonBlank(a.Image1, a.Image2, a.Image3, a.Image4, a.Image5)
}

// DetailPath returns the UI route of the attraction, or "" without a url id.
func (a Attraction) DetailPath() string { return detailPath("/parks/", a.URLID) }
