package retriever

import (
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	transactions []models.Transaction
	err          error
}

func (s *stubSource) ListCategorized(_ context.Context) ([]models.Transaction, error) {
	return s.transactions, s.err
}

func uintPtr(v uint) *uint { return &v }

func categorized(id uint, embedding models.Vector, day int) models.Transaction {
	return models.Transaction{
		ID:         id,
		Vendor:     "Vendor",
		Date:       time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		CategoryID: uintPtr(1),
		Embedding:  embedding,
	}
}

func TestFindSimilarOrdersByDistance(t *testing.T) {
	source := &stubSource{transactions: []models.Transaction{
		categorized(1, models.Vector{0, 1}, 1),  // orthogonal, distance 1
		categorized(2, models.Vector{1, 0}, 1),  // identical, distance 0
		categorized(3, models.Vector{-1, 0}, 1), // opposite, distance 2
	}}
	r := NewRetriever(source, logging.NewMockLogger())

	neighbors, err := r.FindSimilar(context.Background(), models.Vector{1, 0}, 10)

	require.NoError(t, err)
	require.Len(t, neighbors, 3)
	assert.Equal(t, uint(2), neighbors[0].Transaction.ID)
	assert.Equal(t, uint(1), neighbors[1].Transaction.ID)
	assert.Equal(t, uint(3), neighbors[2].Transaction.ID)
	assert.InDelta(t, 0, neighbors[0].Distance, 1e-9)
}

func TestFindSimilarTieBreaks(t *testing.T) {
	// All candidates are equidistant from the query; more recent date wins,
	// then lower id.
	source := &stubSource{transactions: []models.Transaction{
		categorized(5, models.Vector{1, 0}, 10),
		categorized(2, models.Vector{1, 0}, 20),
		categorized(1, models.Vector{1, 0}, 10),
	}}
	r := NewRetriever(source, logging.NewMockLogger())

	neighbors, err := r.FindSimilar(context.Background(), models.Vector{1, 0}, 10)

	require.NoError(t, err)
	require.Len(t, neighbors, 3)
	assert.Equal(t, uint(2), neighbors[0].Transaction.ID)
	assert.Equal(t, uint(1), neighbors[1].Transaction.ID)
	assert.Equal(t, uint(5), neighbors[2].Transaction.ID)
}

func TestFindSimilarCapsAtK(t *testing.T) {
	source := &stubSource{transactions: []models.Transaction{
		categorized(1, models.Vector{1, 0}, 1),
		categorized(2, models.Vector{1, 0.1}, 1),
		categorized(3, models.Vector{1, 0.2}, 1),
	}}
	r := NewRetriever(source, logging.NewMockLogger())

	neighbors, err := r.FindSimilar(context.Background(), models.Vector{1, 0}, 2)

	require.NoError(t, err)
	assert.Len(t, neighbors, 2)
}

func TestFindSimilarSkipsIneligibleRows(t *testing.T) {
	noEmbedding := categorized(1, nil, 1)
	noCategory := categorized(2, models.Vector{1, 0}, 1)
	noCategory.CategoryID = nil

	source := &stubSource{transactions: []models.Transaction{
		noEmbedding,
		noCategory,
		categorized(3, models.Vector{1, 0}, 1),
	}}
	r := NewRetriever(source, logging.NewMockLogger())

	neighbors, err := r.FindSimilar(context.Background(), models.Vector{1, 0}, 10)

	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.Equal(t, uint(3), neighbors[0].Transaction.ID)
}

func TestFindSimilarColdStart(t *testing.T) {
	r := NewRetriever(&stubSource{}, logging.NewMockLogger())

	neighbors, err := r.FindSimilar(context.Background(), models.Vector{1, 0}, 10)

	require.NoError(t, err)
	assert.Empty(t, neighbors)
}

func TestFindSimilarRejectsNonPositiveK(t *testing.T) {
	r := NewRetriever(&stubSource{}, logging.NewMockLogger())

	_, err := r.FindSimilar(context.Background(), models.Vector{1, 0}, 0)
	assert.Error(t, err)

	_, err = r.FindSimilar(context.Background(), models.Vector{1, 0}, -1)
	assert.Error(t, err)
}

func TestFindSimilarPropagatesSourceError(t *testing.T) {
	r := NewRetriever(&stubSource{err: errors.New("db gone")}, logging.NewMockLogger())

	_, err := r.FindSimilar(context.Background(), models.Vector{1, 0}, 10)
	assert.ErrorContains(t, err, "neighbor candidates")
}
