package models

import (
	"fjacquet/expense-analyzer/internal/logging"
)

// ImportStats tracks the outcome counts for one pipeline run. After a run the
// operator sees how many transactions were inserted, skipped as duplicates,
// categorized, left unresolved, or failed at the embedding step.
type ImportStats struct {
	InsertedNew      int // Transactions accepted by the dedup guard and persisted
	DuplicateSkipped int // Transactions rejected as duplicates of a stored row
	Categorized      int // Transactions that received a valid category
	Unresolved       int // Transactions the decision engine could not resolve
	FailedEmbedding  int // Transactions persisted but left un-embedded for a later pass
}

// Processed returns the total number of transactions the run has seen.
func (s ImportStats) Processed() int {
	return s.InsertedNew + s.DuplicateSkipped
}

// LogSummary logs a summary of the run's outcome counts.
func (s ImportStats) LogSummary(logger logging.Logger, runID string) {
	if logger == nil {
		return
	}
	logger.Info("Import summary",
		logging.Field{Key: "run_id", Value: runID},
		logging.Field{Key: "inserted_new", Value: s.InsertedNew},
		logging.Field{Key: "duplicate_skipped", Value: s.DuplicateSkipped},
		logging.Field{Key: "categorized", Value: s.Categorized},
		logging.Field{Key: "unresolved", Value: s.Unresolved},
		logging.Field{Key: "failed_embedding", Value: s.FailedEmbedding},
	)
}

// Add merges the counts from another stats value, for aggregating worker
// results into a batch total.
func (s *ImportStats) Add(other ImportStats) {
	s.InsertedNew += other.InsertedNew
	s.DuplicateSkipped += other.DuplicateSkipped
	s.Categorized += other.Categorized
	s.Unresolved += other.Unresolved
	s.FailedEmbedding += other.FailedEmbedding
}
