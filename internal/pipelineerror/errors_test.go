package pipelineerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "duplicate", err: &DuplicateError{Key: "a|1|2026-01-01|b"}, sentinel: ErrDuplicateTransaction},
		{name: "embedding", err: &EmbeddingError{Vendor: "Coffee Shop", Err: errors.New("timeout")}, sentinel: ErrEmbeddingUnavailable},
		{name: "model response", err: &ModelResponseError{RawResponse: "banana", Reason: "no category id found"}, sentinel: ErrInvalidModelResponse},
		{name: "conflict", err: &ConflictError{Key: "a|1|2026-01-01|b"}, sentinel: ErrPersistenceConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestErrorWrappingSurvivesFmtErrorf(t *testing.T) {
	wrapped := fmt.Errorf("processing failed: %w", &EmbeddingError{Vendor: "X", Err: errors.New("down")})
	assert.ErrorIs(t, wrapped, ErrEmbeddingUnavailable)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(&DuplicateError{Key: "k"}))
	assert.True(t, IsDuplicate(&ConflictError{Key: "k"}))
	assert.False(t, IsDuplicate(ErrEmbeddingUnavailable))
	assert.False(t, IsDuplicate(errors.New("other")))
	assert.False(t, IsDuplicate(nil))
}

func TestModelResponseErrorKeepsRawResponse(t *testing.T) {
	err := &ModelResponseError{RawResponse: "Food sounds right", Reason: "no category id found"}
	assert.Contains(t, err.Error(), `"Food sounds right"`)
	assert.Contains(t, err.Error(), "no category id found")
}
