// Package highlight finds query occurrences in a field value and renders the
// text a client shows for it, optionally cut down to a snippet around the first
// occurrence. All offsets are code point offsets.
package highlight

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/catalogd/internal/domain/search/match"
	"github.com/kailas-cloud/catalogd/internal/domain/search/result"
)

const (
	// SnippetContext is how many code points are kept on each side of the first
	// occurrence before word-boundary expansion.
	SnippetContext = 80
	// MaxRanges caps the number of occurrences reported per field.
	MaxRanges = 5
	// Ellipsis marks text cut from either end of a snippet.
	Ellipsis = "..."
)

var ellipsisLen = len([]rune(Ellipsis))

// Highlight is the rendered text of a field and the ranges to emphasize in it.
type Highlight struct {
	Text   string
	Ranges []result.Range
}

// Field converts the highlight to its result representation.
func (h Highlight) Field() result.FieldHighlight {
	return result.FieldHighlight{Text: h.Text, Ranges: h.Ranges}
}

// Compute matches query against value case-insensitively.
// Returns false when either input is blank or nothing matched.
// With snippet set, the rendered text is a word-bounded window around the
// first occurrence and ranges are remapped into it.
func Compute(value, query string, snippet bool, mode match.Mode) (Highlight, bool) {
	if strings.TrimSpace(value) == "" || strings.TrimSpace(query) == "" {
		return Highlight{}, false
	}

	text := []rune(value)
	occ := findOccurrences(lowerRunes(text), lowerRunes([]rune(query)), mode == match.Exact)
	if len(occ) == 0 {
		return Highlight{}, false
	}

	if !snippet {
		return Highlight{Text: value, Ranges: occ}, true
	}
	return window(text, occ), true
}

// findOccurrences returns up to MaxRanges non-overlapping occurrences of q in v.
// In whole-word mode a candidate glued to a letter or digit is skipped without
// consuming it.
func findOccurrences(v, q []rune, wholeWord bool) []result.Range {
	n, m := len(v), len(q)
	ranges := make([]result.Range, 0, MaxRanges)
	for i := 0; i+m <= n && len(ranges) < MaxRanges; {
		end := i + m
		if !equalAt(v, q, i) || (wholeWord && !wordBounded(v, i, end)) {
			i++
			continue
		}
		ranges = append(ranges, result.Range{Start: i, End: end})
		i = end
	}
	return ranges
}

func window(text []rune, occ []result.Range) Highlight {
	n := len(text)
	first := occ[0]

	start := max(0, first.Start-SnippetContext)
	end := min(n, first.End+SnippetContext)

	// never split a word
	for start > 0 && !unicode.IsSpace(text[start-1]) {
		start--
	}
	for end < n && !unicode.IsSpace(text[end]) {
		end++
	}

	// Trim, moving start past the leading whitespace so remapped ranges stay
	// aligned with the rendered text.
	for start < end && unicode.IsSpace(text[start]) {
		start++
	}
	for end > start && unicode.IsSpace(text[end-1]) {
		end--
	}
	if start >= end {
		return Highlight{Text: "", Ranges: []result.Range{}}
	}

	prefix := start > 0
	suffix := end < n

	var b strings.Builder
	offset := 0
	if prefix {
		b.WriteString(Ellipsis)
		offset = ellipsisLen
	}
	b.WriteString(string(text[start:end]))
	if suffix {
		b.WriteString(Ellipsis)
	}

	contentEnd := offset + (end - start)
	ranges := make([]result.Range, 0, len(occ))
	for _, r := range occ {
		if r.Start >= end || r.End <= start {
			continue
		}
		ns := clamp(r.Start-start+offset, offset, contentEnd)
		ne := clamp(r.End-start+offset, ns, contentEnd)
		ranges = append(ranges, result.Range{Start: ns, End: ne})
	}

	return Highlight{Text: b.String(), Ranges: ranges}
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func equalAt(v, q []rune, at int) bool {
	for j, r := range q {
		if v[at+j] != r {
			return false
		}
	}
	return true
}

func wordBounded(v []rune, start, end int) bool {
	if start > 0 && isWordRune(v[start-1]) {
		return false
	}
	if end < len(v) && isWordRune(v[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
