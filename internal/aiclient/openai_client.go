package aiclient

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// OpenAIClient implements Client against the OpenAI API.
type OpenAIClient struct {
	client  *openai.Client
	limiter *rate.Limiter
	opts    Options
}

// NewOpenAIClient creates an OpenAI-backed client.
func NewOpenAIClient(apiKey string, opts Options) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}
	return &OpenAIClient{
		client:  openai.NewClient(apiKey),
		limiter: newLimiter(opts.RequestsPerMinute),
		opts:    opts,
	}, nil
}

// Embed returns the embedding vector for text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := callContext(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.opts.EmbeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embedding error: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("OpenAI returned an empty embedding")
	}
	return resp.Data[0].Embedding, nil
}

// Complete returns a short completion for prompt.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := callContext(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
