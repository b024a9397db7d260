package domain

import "context"

type llmUsageKey struct{}

// LLMUsage collects provider token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after each provider call; the handler reads it for response headers.
type LLMUsage struct {
	EmbeddingTokens  int
	GenerationTokens int
	Used             bool // true if a provider was called, even on a cache hit with 0 tokens
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *LLMUsage) {
	u := &LLMUsage{}
	return context.WithValue(ctx, llmUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *LLMUsage {
	u, _ := ctx.Value(llmUsageKey{}).(*LLMUsage)
	return u
}

// AddEmbeddingTokens records tokens consumed by an embedding call.
func (u *LLMUsage) AddEmbeddingTokens(n int) {
	if u != nil {
		u.EmbeddingTokens += n
		u.Used = true
	}
}

// AddGenerationTokens records tokens consumed by a completion call.
func (u *LLMUsage) AddGenerationTokens(n int) {
	if u != nil {
		u.GenerationTokens += n
		u.Used = true
	}
}

// TotalTokens sums embedding and generation usage.
func (u *LLMUsage) TotalTokens() int {
	if u == nil {
		return 0
	}
	return u.EmbeddingTokens + u.GenerationTokens
}
