package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogd/internal/domain"
	"github.com/kailas-cloud/catalogd/internal/metrics"
)

// Generator answers prompts through the chat completions API.
type Generator struct {
	client    *openai.Client
	model     string
	maxTokens int
	user      string
	provider  string
	logger    *zap.Logger
}

// NewGenerator creates an OpenAI-compatible text generator.
func NewGenerator(cfg *Config) *Generator {
	return &Generator{
		client:    newClient(cfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		user:      cfg.User,
		provider:  cfg.Provider,
		logger:    cfg.Logger,
	}
}

// Generate implements domain.Generator. The prompt is sent as a single user message.
func (g *Generator) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		User: g.user,
	}
	if g.maxTokens > 0 {
		req.MaxTokens = g.maxTokens
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		g.fail("api_error")
		return domain.GenerationResult{}, parseAPIError("generation", err, domain.ErrLLMProviderError)
	}
	if len(resp.Choices) == 0 {
		g.fail("empty_response")
		return domain.GenerationResult{}, fmt.Errorf("empty completion response: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(g.provider, g.model, metrics.OpGenerate, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(g.provider, g.model, metrics.OpGenerate).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(g.provider, g.model, metrics.OpGenerate, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(g.provider, g.model, metrics.OpGenerate, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.LLMTokensTotal.WithLabelValues(g.provider, g.model, metrics.OpGenerate, "total").Add(float64(resp.Usage.TotalTokens))
	}

	choice := resp.Choices[0]
	g.logger.Debug("Completion request completed",
		zap.String("provider", g.provider),
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.String("finish_reason", string(choice.FinishReason)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return domain.GenerationResult{
		Text:             choice.Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

func (g *Generator) fail(errorType string) {
	metrics.LLMRequestsTotal.WithLabelValues(g.provider, g.model, metrics.OpGenerate, "error").Inc()
	metrics.LLMErrorsTotal.WithLabelValues(g.provider, g.model, metrics.OpGenerate, errorType).Inc()
}

// HealthCheck verifies API availability via ListModels.
func (g *Generator) HealthCheck(ctx context.Context) error {
	return healthCheck(ctx, g.client)
}
