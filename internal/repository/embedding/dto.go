package embedding

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/catalogd/internal/db"
	"github.com/kailas-cloud/catalogd/internal/domain/rag"
)

const (
	fieldContentType  = "content_type"
	fieldContentID    = "content_id"
	fieldTextContent  = "text_content"
	fieldModelVersion = "model_version"
	fieldVector       = "embedding"
)

func buildHashFields(e rag.ContentEmbedding) map[string]string {
	return map[string]string{
		fieldContentType:  e.ContentType,
		fieldContentID:    strconv.FormatInt(e.ContentID, 10),
		fieldTextContent:  e.TextContent,
		fieldModelVersion: e.ModelVersion,
		fieldVector:       string(db.VectorToBytes(e.Embedding)),
	}
}

func parseHashFields(m map[string]string) (rag.ContentEmbedding, error) {
	id, err := strconv.ParseInt(m[fieldContentID], 10, 64)
	if err != nil {
		return rag.ContentEmbedding{}, fmt.Errorf("parse content_id %q: %w", m[fieldContentID], err)
	}
	vec, err := db.BytesToVector([]byte(m[fieldVector]))
	if err != nil {
		return rag.ContentEmbedding{}, fmt.Errorf("parse vector: %w", err)
	}
	return rag.ContentEmbedding{
		ContentType:  m[fieldContentType],
		ContentID:    id,
		TextContent:  m[fieldTextContent],
		Embedding:    vec,
		ModelVersion: m[fieldModelVersion],
	}, nil
}
