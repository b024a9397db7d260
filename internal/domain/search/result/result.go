// Package result holds the per-request search result model.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Range is a half-open [Start, End) code point interval into the rendered text
// of a FieldHighlight.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FieldHighlight is the rendered text of one matched field with its highlight ranges.
type FieldHighlight struct {
	Text   string  `json:"text"`
	Ranges []Range `json:"ranges"`
}

// Highlights maps field names to highlights, keeping insertion order.
type Highlights struct {
	fields []string
	byName map[string]FieldHighlight
}

// Set adds or replaces the highlight of a field. New fields go last.
func (h *Highlights) Set(field string, fh FieldHighlight) {
	if h.byName == nil {
		h.byName = make(map[string]FieldHighlight)
	}
	if _, ok := h.byName[field]; !ok {
		h.fields = append(h.fields, field)
	}
	h.byName[field] = fh
}

// Get returns the highlight of a field.
func (h *Highlights) Get(field string) (FieldHighlight, bool) {
	fh, ok := h.byName[field]
	return fh, ok
}

// Fields returns field names in insertion order.
func (h *Highlights) Fields() []string {
	out := make([]string, len(h.fields))
	copy(out, h.fields)
	return out
}

// Len returns the number of highlighted fields.
func (h *Highlights) Len() int { return len(h.fields) }

// MarshalJSON encodes highlights as an object in insertion order.
func (h Highlights) MarshalJSON() ([]byte, error) {
	return marshalOrdered(h.fields, func(k string) any { return h.byName[k] })
}

// Item is a single search hit. Category-specific fields are omitted when unset.
type Item struct {
	ID                 int64      `json:"id"`
	Type               string     `json:"type"`
	Title              string     `json:"title"`
	DescriptionSnippet string     `json:"descriptionSnippet,omitempty"`
	ImageURL           string     `json:"imageUrl,omitempty"`
	DetailPath         string     `json:"detailPath,omitempty"`
	Highlights         Highlights `json:"highlights"`

	// movies
	CreationYear *int   `json:"creationYear,omitempty"`
	MovieRating  string `json:"movieRating,omitempty"`

	// characters
	FirstAppearance string `json:"firstAppearance,omitempty"`
	Franchise       string `json:"franchise,omitempty"`

	// parks
	ParkURLID      string `json:"parkUrlId,omitempty"`
	AttractionType string `json:"attractionType,omitempty"`
}

// CategoryResult holds the capped hits of one category plus the uncapped total.
type CategoryResult struct {
	Total   int64  `json:"total"`
	Results []Item `json:"results"`
}

// Response maps category names to their results, keeping insertion order.
// It encodes flat: every category is a top-level key.
type Response struct {
	categories []string
	byName     map[string]CategoryResult
}

// NewResponse creates an empty response.
func NewResponse() Response {
	return Response{byName: make(map[string]CategoryResult)}
}

// Put adds or replaces a category result. New categories go last.
func (r *Response) Put(category string, cr CategoryResult) {
	if r.byName == nil {
		r.byName = make(map[string]CategoryResult)
	}
	if _, ok := r.byName[category]; !ok {
		r.categories = append(r.categories, category)
	}
	r.byName[category] = cr
}

// Get returns the result of a category.
func (r Response) Get(category string) (CategoryResult, bool) {
	cr, ok := r.byName[category]
	return cr, ok
}

// Categories returns category names in insertion order.
func (r Response) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// Len returns the number of categories.
func (r Response) Len() int { return len(r.categories) }

// MarshalJSON encodes the response as a flat object in insertion order.
func (r Response) MarshalJSON() ([]byte, error) {
	return marshalOrdered(r.categories, func(k string) any {
		cr := r.byName[k]
		if cr.Results == nil {
			cr.Results = []Item{}
		}
		return cr
	})
}

func marshalOrdered(keys []string, value func(string) any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		vb, err := json.Marshal(value(k))
		if err != nil {
			return nil, fmt.Errorf("marshal value of %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
