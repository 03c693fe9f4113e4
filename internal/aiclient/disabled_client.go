package aiclient

import (
	"context"
	"errors"
)

// ErrDisabled is returned by the disabled client for every call.
var ErrDisabled = errors.New("AI calls disabled: no API key configured")

type disabledClient struct{}

// Disabled returns a Client whose calls always fail with ErrDisabled. Used
// when no API key is configured so commands that never reach the AI still
// run, and those that do surface a clear error per transaction.
func Disabled() Client {
	return disabledClient{}
}

func (disabledClient) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrDisabled
}

func (disabledClient) Complete(ctx context.Context, prompt string) (string, error) {
	return "", ErrDisabled
}
