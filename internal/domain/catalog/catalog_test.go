package catalog

import "testing"

func TestFirstNonBlank(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"", "  ", "b.png", "c.png"}, "b.png"},
		{[]string{"a.png"}, "a.png"},
		{[]string{"", "\t"}, ""},
	}
	for _, tc := range tests {
		if got := FirstNonBlank(tc.in...); got != tc.want {
			t.Errorf("FirstNonBlank(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDetailPaths(t *testing.T) {
	if got := (Movie{URLID: "frozen"}).DetailPath(); got != "/movies/frozen" {
		t.Errorf("movie path %q", got)
	}
	if got := (Movie{}).DetailPath(); got != "" {
		t.Errorf("expected empty movie path, got %q", got)
	}
	if got := (Character{URLID: "elsa"}).DetailPath(); got != "/characters/elsa" {
		t.Errorf("character path %q", got)
	}
	if got := (Attraction{URLID: "space-mountain"}).DetailPath(); got != "/parks/space-mountain" {
		t.Errorf("attraction path %q", got)
	}
}

func TestImageURL(t *testing.T) {
	a := Attraction{Image3: "three.jpg", Image5: "five.jpg"}
	if got := a.ImageURL(); got != "three.jpg" {
		t.Errorf("expected three.jpg, got %q", got)
	}
	c := Character{BackgroundImage1: "bg.jpg"}
	if got := c.ImageURL(); got != "bg.jpg" {
		t.Errorf("expected bg.jpg, got %q", got)
	}
}

func TestCreationYearString(t *testing.T) {
	year := 1937
	if got := (Movie{CreationYear: &year}).CreationYearString(); got != "1937" {
		t.Errorf("got %q", got)
	}
	if got := (Movie{}).CreationYearString(); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
