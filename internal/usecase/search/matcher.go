package search

import (
	"github.com/kailas-cloud/catalogd/internal/domain/search/highlight"
	"github.com/kailas-cloud/catalogd/internal/domain/search/match"
	"github.com/kailas-cloud/catalogd/internal/domain/search/result"
)

// snippetFields are long-text fields rendered as windows around the first match.
var snippetFields = map[string]struct{}{
	"short_description": {},
	"long_description":  {},
	"theme":             {},
}

// Query is one category scan: the normalized text, the resolved fields, the
// match mode and the result cap.
type Query struct {
	Text   string
	Fields []string
	Mode   match.Mode
	Limit  int
}

func isSnippetField(name string) bool {
	_, ok := snippetFields[name]
	return ok
}

// buildCategoryResult scans rows in order. Every matching row counts towards
// Total; only the first q.Limit are materialized.
func buildCategoryResult[T any](
	rows []T,
	extractors map[string]func(T) string,
	toItem func(T) result.Item,
	q Query,
) result.CategoryResult {
	out := result.CategoryResult{Results: []result.Item{}}

	for _, row := range rows {
		var (
			hl      result.Highlights
			snippet string
			matched bool
		)
		for _, field := range q.Fields {
			get, ok := extractors[field]
			if !ok {
				continue
			}
			isSnippet := isSnippetField(field)
			h, ok := highlight.Compute(get(row), q.Text, isSnippet, q.Mode)
			if !ok {
				continue
			}
			matched = true
			hl.Set(field, h.Field())
			if isSnippet && snippet == "" {
				snippet = h.Text
			}
		}
		if !matched {
			continue
		}

		out.Total++
		if len(out.Results) >= q.Limit {
			continue
		}
		item := toItem(row)
		item.Highlights = hl
		item.DescriptionSnippet = snippet
		out.Results = append(out.Results, item)
	}

	return out
}
