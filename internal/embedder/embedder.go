// Package embedder maps a transaction's textual fields to a fixed-length
// numeric vector via an external embedding service.
package embedder

import (
	"context"
	"fmt"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/pipelineerror"
)

// EmbeddingClient is the external-service seam: it accepts text and returns
// a numeric vector. Implementations interact with an embedding provider
// (Gemini, OpenAI); tests substitute a stub.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TransactionEmbedder renders a transaction into deterministic input text
// and requests its embedding. It never mutates transaction state; the caller
// attaches the returned vector.
type TransactionEmbedder struct {
	client    EmbeddingClient
	dimension int
	logger    logging.Logger
}

// NewTransactionEmbedder creates an embedder with the configured vector
// dimension. The dimension is agreed with the persistence schema; vectors of
// any other length are rejected as malformed service output.
func NewTransactionEmbedder(client EmbeddingClient, dimension int, logger logging.Logger) *TransactionEmbedder {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &TransactionEmbedder{
		client:    client,
		dimension: dimension,
		logger:    logger,
	}
}

// InputText renders the embedding input. The rendering is a pure function of
// vendor, description, amount and date, in fixed field order with a fixed
// separator, so the same transaction always produces the same input text.
func InputText(tx models.Transaction) string {
	return fmt.Sprintf("Vendor: %s | Description: %s | Amount: %s | Date: %s",
		tx.Vendor,
		tx.Description,
		tx.Amount.StringFixed(2),
		models.NormalizeDate(tx.Date).Format("2006-01-02"),
	)
}

// Embed computes the embedding for a transaction. On service failure or
// malformed output it returns an error wrapping ErrEmbeddingUnavailable; the
// transaction stays un-embedded and uncategorized for a later retry. A zero
// vector is never returned as a success.
func (e *TransactionEmbedder) Embed(ctx context.Context, tx models.Transaction) (models.Vector, error) {
	text := InputText(tx)

	values, err := e.client.Embed(ctx, text)
	if err != nil {
		return nil, &pipelineerror.EmbeddingError{Vendor: tx.Vendor, Err: err}
	}

	if len(values) != e.dimension {
		return nil, &pipelineerror.EmbeddingError{
			Vendor: tx.Vendor,
			Err:    fmt.Errorf("expected %d dimensions, got %d", e.dimension, len(values)),
		}
	}

	allZero := true
	for _, v := range values {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return nil, &pipelineerror.EmbeddingError{
			Vendor: tx.Vendor,
			Err:    fmt.Errorf("service returned a zero vector"),
		}
	}

	e.logger.Debug("Transaction embedded",
		logging.Field{Key: logging.FieldVendor, Value: tx.Vendor},
		logging.Field{Key: "dimension", Value: len(values)},
	)
	return models.Vector(values), nil
}
