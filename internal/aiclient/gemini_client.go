package aiclient

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// GeminiClient implements Client against the Google Gemini API.
type GeminiClient struct {
	client         *genai.Client
	model          *genai.GenerativeModel
	embeddingModel *genai.EmbeddingModel
	limiter        *rate.Limiter
	opts           Options
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey string, opts Options) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	// Categorization wants the most repeatable answer the model can give.
	temperature := float32(0)
	model.Temperature = &temperature

	return &GeminiClient{
		client:         client,
		model:          model,
		embeddingModel: client.EmbeddingModel(opts.EmbeddingModel),
		limiter:        newLimiter(opts.RequestsPerMinute),
		opts:           opts,
	}, nil
}

// Embed returns the embedding vector for text.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := callContext(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.embeddingModel.EmbedContent(callCtx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("Gemini embedding error: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("Gemini returned an empty embedding")
	}
	return resp.Embedding.Values, nil
}

// Complete returns a short completion for prompt.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := callContext(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
