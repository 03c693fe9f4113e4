// Package retriever finds the stored transactions most similar to a new
// embedding. Results are ephemeral: a neighbor set exists only for the
// duration of one categorization call.
package retriever

import (
	"context"
	"fmt"
	"sort"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
)

// CandidateSource supplies the neighbor candidate pool from the persistence
// layer: transactions that already carry both an embedding and a category.
type CandidateSource interface {
	ListCategorized(ctx context.Context) ([]models.Transaction, error)
}

// Neighbor is one ranked retrieval result.
type Neighbor struct {
	Transaction models.Transaction
	Distance    float64
}

// Retriever ranks eligible transactions by cosine distance to a query
// embedding.
type Retriever struct {
	source CandidateSource
	logger logging.Logger
}

// NewRetriever creates a Retriever over the given candidate source.
func NewRetriever(source CandidateSource, logger logging.Logger) *Retriever {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Retriever{source: source, logger: logger}
}

// FindSimilar returns up to k neighbors ordered by ascending cosine distance.
// Ties break on more-recent transaction date first, then lowest ID, so the
// ranking is deterministic for a fixed data set. An empty result is the
// valid cold-start outcome, not an error; the caller routes to the fallback
// prompt.
func (r *Retriever) FindSimilar(ctx context.Context, embedding models.Vector, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("neighbor count must be positive, got %d", k)
	}

	candidates, err := r.source.ListCategorized(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load neighbor candidates: %w", err)
	}

	neighbors := make([]Neighbor, 0, len(candidates))
	for _, c := range candidates {
		// The source already filters, but a row missing either field must
		// never reach the decision engine.
		if !c.HasEmbedding() || !c.IsCategorized() {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Transaction: c,
			Distance:    embedding.CosineDistance(c.Embedding),
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		a, b := neighbors[i], neighbors[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if !a.Transaction.Date.Equal(b.Transaction.Date) {
			return a.Transaction.Date.After(b.Transaction.Date)
		}
		return a.Transaction.ID < b.Transaction.ID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}

	r.logger.Debug("Neighbor retrieval finished",
		logging.Field{Key: logging.FieldNeighbors, Value: len(neighbors)},
		logging.Field{Key: "k", Value: k},
	)
	return neighbors, nil
}
