package catalog

// Character is a catalog character.
type Character struct {
	ID               int64  `json:"id"`
	URLID            string `json:"url_id"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
	FirstAppearance  string `json:"first_appearance"`
	Franchise        string `json:"franchise"`
	CharacterType    string `json:"character_type"`
	Species          string `json:"species"`
	ProfileImage1    string `json:"profile_image_1"`
	BackgroundImage1 string `json:"background_image_1"`
}

// ImageURL prefers the profile image over the background.
func (c Character) ImageURL() string { return FirstNonBlank(c.ProfileImage1, c.BackgroundImage1) }

// DetailPath returns the UI route of the character, or "" without a url id.
func (c Character) DetailPath() string { return detailPath("/characters/", c.URLID) }
