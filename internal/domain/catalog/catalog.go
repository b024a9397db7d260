// Package catalog holds the read-only content entities served and searched by catalogd.
package catalog

import (
	"strings"
)

// Content type names shared by search results, embeddings and citations.
const (
	TypeMovie      = "movie"
	TypeCharacter  = "character"
	TypeAttraction = "park"
)

// FirstNonBlank returns the first value that is not empty or whitespace.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func detailPath(prefix, urlID string) string {
	if strings.TrimSpace(urlID) == "" {
		return ""
	}
	return prefix + urlID
}
