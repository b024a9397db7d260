package match

import "strings"

// Mode is the keyword matching strategy.
type Mode string

// Match mode constants.
const (
	// Partial matches the query as a raw substring.
	Partial Mode = "partial"
	// Exact matches the query only as a whole word.
	Exact Mode = "exact"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Partial || m == Exact
}

// Parse normalizes a raw mode string. Blank input yields Partial.
func Parse(raw string) (Mode, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Partial, true
	}
	m := Mode(s)
	return m, m.IsValid()
}
