// Package rag holds the retrieval-augmented question answering domain types.
package rag

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/catalogd/internal/domain"
)

const (
	// DefaultTopK is used when a query does not ask for a result count.
	DefaultTopK = 5
	// MaxTopK caps the number of retrieved embeddings.
	MaxTopK = 20

	excerptLen     = 200
	contentNameLen = 100
	unknownName    = "Unknown"
)

// ContentEmbedding is a stored vector for one catalog entity and embedding model.
type ContentEmbedding struct {
	ContentType  string
	ContentID    int64
	TextContent  string
	Embedding    []float32
	ModelVersion string
}

// Query is a question asked against the catalog.
type Query struct {
	Query       string `json:"query"`
	ContentType string `json:"content_type,omitempty"`
	TopK        int    `json:"top_k,omitempty"`
}

// Citation points at a source used to answer a query.
type Citation struct {
	ContentType     string  `json:"content_type"`
	ContentID       int64   `json:"content_id"`
	ContentName     string  `json:"content_name"`
	SimilarityScore float64 `json:"similarity_score"`
	Excerpt         string  `json:"excerpt"`
}

// Answer is the generated response with its sources.
type Answer struct {
	Answer  string     `json:"answer"`
	Sources []Citation `json:"sources"`
	Query   string     `json:"query"`
	Cached  bool       `json:"cached"`
}

// ClampTopK applies the default and bounds the value to [1, MaxTopK].
func ClampTopK(k int) int {
	if k == 0 {
		k = DefaultTopK
	}
	return max(1, min(k, MaxTopK))
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|). Zero vectors yield 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", domain.ErrVectorDimMismatch, len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// NewCitation builds a citation for a retrieved embedding.
func NewCitation(e ContentEmbedding, similarity float64) Citation {
	return Citation{
		ContentType:     e.ContentType,
		ContentID:       e.ContentID,
		ContentName:     ContentName(e.TextContent),
		SimilarityScore: similarity,
		Excerpt:         Excerpt(e.TextContent),
	}
}

// Excerpt returns the first 200 code points of text, suffixed with "..." when cut.
func Excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptLen {
		return text
	}
	return string([]rune(text)[:excerptLen]) + "..."
}

// ContentName derives a display name from the first line of an embedded document.
// Long lines fall back to the first sentence, then to a truncated line.
func ContentName(text string) string {
	if strings.TrimSpace(text) == "" {
		return unknownName
	}
	first, _, _ := strings.Cut(text, "\n")
	if utf8.RuneCountInString(first) <= contentNameLen {
		return strings.TrimSpace(first)
	}
	sentence, _, _ := strings.Cut(first, ".")
	if utf8.RuneCountInString(sentence) <= contentNameLen {
		return strings.TrimSpace(sentence)
	}
	return string([]rune(first)[:contentNameLen-3]) + "..."
}
