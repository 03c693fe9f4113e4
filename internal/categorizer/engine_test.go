package categorizer

import (
	"context"
	"errors"
	"testing"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/pipelineerror"
	"fjacquet/expense-analyzer/internal/retriever"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns one canned answer per call, in order.
type scriptedClient struct {
	answers []string
	errs    []error
	prompts []string
}

func (s *scriptedClient) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := len(s.prompts) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.answers) {
		return s.answers[i], nil
	}
	return "", errors.New("no scripted answer")
}

func TestCategorizeValidFirstAnswer(t *testing.T) {
	client := &scriptedClient{answers: []string{"3"}}
	engine := NewEngine(client, logging.NewMockLogger())

	outcome, err := engine.Categorize(context.Background(), promptTransaction(), nil, testTaxonomy())

	require.NoError(t, err)
	assert.True(t, outcome.Resolved)
	assert.Equal(t, uint(3), outcome.Category.ID)
	assert.Equal(t, "Transport", outcome.Category.Name)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Len(t, client.prompts, 1)
}

func TestCategorizeRecoversOnCorrectiveRetry(t *testing.T) {
	client := &scriptedClient{answers: []string{"I think Food fits best", "1"}}
	engine := NewEngine(client, logging.NewMockLogger())

	outcome, err := engine.Categorize(context.Background(), promptTransaction(), nil, testTaxonomy())

	require.NoError(t, err)
	assert.True(t, outcome.Resolved)
	assert.Equal(t, uint(1), outcome.Category.ID)
	assert.Equal(t, 2, outcome.Attempts)
	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[1], `Your previous answer "I think Food fits best" is not a valid category id`)
}

func TestCategorizeUnresolvedAfterTwoInvalidAnswers(t *testing.T) {
	client := &scriptedClient{answers: []string{"99", "banana"}}
	logger := logging.NewMockLogger()
	engine := NewEngine(client, logger)

	outcome, err := engine.Categorize(context.Background(), promptTransaction(), nil, testTaxonomy())

	require.NoError(t, err)
	assert.False(t, outcome.Resolved)
	assert.Equal(t, 2, outcome.Attempts)
	// exactly two model invocations, never a third
	assert.Len(t, client.prompts, 2)
	assert.True(t, logger.HasMessage("Categorization unresolved after retry"))
}

func TestCategorizeRetriesAfterCallFailure(t *testing.T) {
	client := &scriptedClient{
		errs:    []error{errors.New("rate limited"), nil},
		answers: []string{"", "12"},
	}
	engine := NewEngine(client, logging.NewMockLogger())

	outcome, err := engine.Categorize(context.Background(), promptTransaction(), nil, testTaxonomy())

	require.NoError(t, err)
	assert.True(t, outcome.Resolved)
	assert.Equal(t, uint(12), outcome.Category.ID)
}

func TestCategorizeEmptyTaxonomy(t *testing.T) {
	client := &scriptedClient{answers: []string{"1"}}
	engine := NewEngine(client, logging.NewMockLogger())

	_, err := engine.Categorize(context.Background(), promptTransaction(), nil, models.NewTaxonomy(nil))

	assert.ErrorIs(t, err, pipelineerror.ErrTaxonomyEmpty)
	assert.Empty(t, client.prompts)
}

func TestCategorizeStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{errs: []error{ctx.Err()}}
	engine := NewEngine(client, logging.NewMockLogger())

	_, err := engine.Categorize(ctx, promptTransaction(), nil, testTaxonomy())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, client.prompts, 1)
}

func TestCategorizeResultAlwaysInTaxonomy(t *testing.T) {
	// Whatever the model answers, a resolved category is a taxonomy member.
	answers := []string{"0", "1", "2", "3", "7", "12", "99", "-1", "first", ""}
	taxonomy := testTaxonomy()

	for _, answer := range answers {
		client := &scriptedClient{answers: []string{answer, answer}}
		engine := NewEngine(client, logging.NewMockLogger())

		outcome, err := engine.Categorize(context.Background(), promptTransaction(), nil, taxonomy)
		require.NoError(t, err)
		if outcome.Resolved {
			assert.True(t, taxonomy.Contains(outcome.Category.ID), "answer %q resolved to a category outside the taxonomy", answer)
		}
	}
}

func TestCategorizeUsesNeighborContext(t *testing.T) {
	catID := uint(1)
	neighbors := []retriever.Neighbor{{
		Transaction: models.Transaction{
			Vendor:     "Coffee Shop",
			CategoryID: &catID,
			Category:   &models.Category{ID: 1, Name: "Food"},
		},
		Distance: 0.1,
	}}

	client := &scriptedClient{answers: []string{"1"}}
	engine := NewEngine(client, logging.NewMockLogger())

	_, err := engine.Categorize(context.Background(), promptTransaction(), neighbors, testTaxonomy())

	require.NoError(t, err)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Category: Food (ID: 1)")
}
