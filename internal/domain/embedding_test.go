package domain

import (
	"context"
	"errors"
	"testing"
)

// countingEmbedder returns a one-element vector holding the text length.
type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	c.calls++
	if c.err != nil {
		return EmbeddingResult{}, c.err
	}
	return EmbeddingResult{
		Embedding:    []float32{float32(len(text))},
		PromptTokens: 2,
		TotalTokens:  2,
	}, nil
}

type nativeBatcher struct {
	countingEmbedder
	vectors [][]float32
	err     error
	texts   []string
}

func (n *nativeBatcher) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	n.texts = texts
	return BatchEmbeddingResult{Embeddings: n.vectors, PromptTokens: 9, TotalTokens: 9}, n.err
}

func TestBatchEmbed_OneCallPerTextWithoutNativeBatch(t *testing.T) {
	e := &countingEmbedder{}
	res, err := BatchEmbed(context.Background(), e, []string{"Frozen", "Up", "Moana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.calls != 3 {
		t.Errorf("expected 3 Embed calls, got %d", e.calls)
	}
	if len(res.Embeddings) != 3 || res.Embeddings[1][0] != 2 {
		t.Errorf("vectors out of order: %v", res.Embeddings)
	}
	if res.TotalTokens != 6 || res.PromptTokens != 6 {
		t.Errorf("expected summed usage 6/6, got %d/%d", res.PromptTokens, res.TotalTokens)
	}
}

func TestBatchEmbed_NoTexts(t *testing.T) {
	res, err := BatchEmbed(context.Background(), &countingEmbedder{}, nil)
	if err != nil || len(res.Embeddings) != 0 {
		t.Fatalf("expected empty result, got %v %v", res, err)
	}
}

func TestBatchEmbed_SingleCallError(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := BatchEmbed(context.Background(), &countingEmbedder{err: boom}, []string{"a", "b"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestBatchEmbed_PrefersNativeBatch(t *testing.T) {
	b := &nativeBatcher{vectors: [][]float32{{1}, {2}}}
	res, err := BatchEmbed(context.Background(), b, []string{"Elsa", "Anna"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.calls != 0 {
		t.Errorf("Embed must not be called, got %d calls", b.calls)
	}
	if len(b.texts) != 2 || res.TotalTokens != 9 {
		t.Errorf("unexpected batch call: texts=%v tokens=%d", b.texts, res.TotalTokens)
	}
}

func TestBatchEmbed_NativeBatchErrors(t *testing.T) {
	boom := errors.New("502 from provider")

	tests := []struct {
		name string
		b    *nativeBatcher
		want error
	}{
		{"provider error", &nativeBatcher{err: boom}, boom},
		{"short answer", &nativeBatcher{vectors: [][]float32{{1}}}, ErrEmbeddingProviderError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BatchEmbed(context.Background(), tc.b, []string{"a", "b"})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLLMUsage(t *testing.T) {
	ctx, usage := NewContextWithUsage(context.Background())
	UsageFromContext(ctx).AddEmbeddingTokens(7)
	UsageFromContext(ctx).AddGenerationTokens(30)

	if !usage.Used {
		t.Error("expected Used")
	}
	if usage.TotalTokens() != 37 {
		t.Errorf("expected 37 tokens, got %d", usage.TotalTokens())
	}

	// Nil collector is a no-op.
	UsageFromContext(context.Background()).AddEmbeddingTokens(1)
	if UsageFromContext(context.Background()).TotalTokens() != 0 {
		t.Error("nil usage should report zero")
	}
}
