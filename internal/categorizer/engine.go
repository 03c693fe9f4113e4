// Package categorizer derives a final category assignment for a transaction
// from its retrieved neighbor context via a language-model call.
package categorizer

import (
	"context"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/pipelineerror"
	"fjacquet/expense-analyzer/internal/retriever"
)

// CompletionClient is the language-model seam. Implementations interact with
// an external AI service; tests substitute a stub.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Outcome is the result of one categorization attempt. When Resolved is
// true, Category is always a member of the taxonomy supplied for the call.
// Unresolved leaves the transaction in the external "uncategorized" bucket.
type Outcome struct {
	Category models.Category
	Resolved bool
	Attempts int
}

// Engine runs the categorization decision step. The engine does not
// guarantee the same transaction always receives the same category across
// repeated calls (the model may be non-deterministic); it does guarantee
// that any resolved category belongs to the supplied taxonomy.
type Engine struct {
	client CompletionClient
	logger logging.Logger
}

// NewEngine creates a decision engine over the given completion client.
func NewEngine(client CompletionClient, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{client: client, logger: logger}
}

// Categorize asks the model for exactly one category id from the taxonomy's
// assignable set. An invalid or failed answer gets one corrective re-prompt;
// a second miss resolves to Unresolved. Every model invocation is logged
// with the neighbor set used, so the reason for an assignment is auditable.
func (e *Engine) Categorize(ctx context.Context, tx models.Transaction, neighbors []retriever.Neighbor, taxonomy models.Taxonomy) (Outcome, error) {
	if taxonomy.IsEmpty() {
		return Outcome{}, pipelineerror.ErrTaxonomyEmpty
	}

	auditLog := e.logger.WithFields(
		logging.Field{Key: logging.FieldVendor, Value: tx.Vendor},
		logging.Field{Key: logging.FieldNeighbors, Value: neighborAudit(neighbors)},
	)

	prompt := buildPrompt(tx, neighbors, taxonomy)

	outcome := Outcome{}
	var lastAnswer string
	for attempt := 1; attempt <= 2; attempt++ {
		outcome.Attempts = attempt

		auditLog.Debug("Invoking categorization model",
			logging.Field{Key: logging.FieldAttempt, Value: attempt},
		)

		raw, err := e.client.Complete(ctx, prompt)
		if err != nil {
			auditLog.WithError(err).Warn("Categorization model call failed",
				logging.Field{Key: logging.FieldAttempt, Value: attempt},
			)
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			lastAnswer = ""
			prompt = buildCorrectivePrompt(lastAnswer, tx, taxonomy)
			continue
		}

		id, err := parseCategoryID(raw, taxonomy)
		if err != nil {
			auditLog.WithError(err).Warn("Model returned an invalid category",
				logging.Field{Key: logging.FieldAttempt, Value: attempt},
			)
			lastAnswer = raw
			prompt = buildCorrectivePrompt(lastAnswer, tx, taxonomy)
			continue
		}

		category, _ := taxonomy.ByID(id)
		outcome.Category = category
		outcome.Resolved = true

		auditLog.Info("Category assigned",
			logging.Field{Key: logging.FieldCategoryID, Value: category.ID},
			logging.Field{Key: logging.FieldCategory, Value: category.Name},
			logging.Field{Key: logging.FieldAttempt, Value: attempt},
		)
		return outcome, nil
	}

	auditLog.Warn("Categorization unresolved after retry")
	return outcome, nil
}

// neighborAudit renders the neighbor set compactly for the audit trail.
func neighborAudit(neighbors []retriever.Neighbor) []map[string]interface{} {
	audit := make([]map[string]interface{}, 0, len(neighbors))
	for _, n := range neighbors {
		entry := map[string]interface{}{
			"transaction_id": n.Transaction.ID,
			"vendor":         n.Transaction.Vendor,
			"distance":       n.Distance,
		}
		if n.Transaction.CategoryID != nil {
			entry["category_id"] = *n.Transaction.CategoryID
		}
		audit = append(audit, entry)
	}
	return audit
}
