// Package aiclient provides the external AI service clients used by the
// pipeline: one for embeddings, one for short text completions. Two
// providers are supported, selected by configuration; both are throttled by
// a shared requests-per-minute limiter so batch imports stay inside the
// provider's rate limits.
package aiclient

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Client is the full surface the pipeline needs from an AI provider.
// Both the Gemini and OpenAI clients implement it.
type Client interface {
	// Embed returns a fixed-length numeric vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Complete returns a short textual completion for the given prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options carries the provider-independent call settings.
type Options struct {
	Model             string
	EmbeddingModel    string
	RequestsPerMinute int
	Timeout           time.Duration
}

// newLimiter builds the shared per-client rate limiter. A burst of one keeps
// request spacing even across a worker pool.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
}

// callContext applies the configured per-call timeout.
func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// New constructs a client for the named provider ("gemini" or "openai").
func New(ctx context.Context, provider, apiKey string, opts Options) (Client, error) {
	switch provider {
	case "gemini":
		return NewGeminiClient(ctx, apiKey, opts)
	case "openai":
		return NewOpenAIClient(apiKey, opts)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", provider)
	}
}
