// Package pipeline implements the ingestion-dedup-categorization pipeline:
// raw parsed transaction -> dedup guard -> embedding -> neighbor retrieval
// -> language-model decision -> persisted categorized transaction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/pipelineerror"

	"github.com/google/uuid"
)

// consecutive embedding failures treated as total loss of connectivity to
// the embedding collaborator, aborting the batch.
const embeddingFailureAbortThreshold = 5

// Options carries the per-run tunables.
type Options struct {
	// Neighbors is the k bound for similarity retrieval.
	Neighbors int
	// Workers bounds the concurrent per-transaction pipelines.
	Workers int
}

// Engine orchestrates the pipeline. Transactions in a batch are processed
// independently: a per-transaction failure never aborts the batch, only a
// total loss of a collaborator does.
type Engine struct {
	store      TransactionStore
	taxonomies TaxonomyLoader
	embedder   Embedder
	retriever  SimilarityRetriever
	decider    Decider
	locks      *keyedMutex
	opts       Options
	logger     logging.Logger

	embeddingFailureStreak atomic.Int64
}

// NewEngine wires the pipeline from its collaborators.
func NewEngine(store TransactionStore, taxonomies TaxonomyLoader, embedder Embedder, retriever SimilarityRetriever, decider Decider, opts Options, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if opts.Neighbors <= 0 {
		opts.Neighbors = 10
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Engine{
		store:      store,
		taxonomies: taxonomies,
		embedder:   embedder,
		retriever:  retriever,
		decider:    decider,
		locks:      newKeyedMutex(),
		opts:       opts,
		logger:     logger,
	}
}

// Run ingests a batch of raw transactions through a bounded worker pool and
// returns the outcome counts. The taxonomy snapshot is loaded once for the
// whole run. On a batch-level abort the returned error reports how many
// transactions were processed versus remaining.
func (e *Engine) Run(ctx context.Context, raws []models.RawTransaction) (models.ImportStats, error) {
	runID := uuid.NewString()
	log := e.logger.WithField(logging.FieldRunID, runID)

	var stats models.ImportStats
	if len(raws) == 0 {
		return stats, nil
	}

	taxonomy, err := e.taxonomies.LoadTaxonomy(ctx)
	if err != nil {
		return stats, fmt.Errorf("import aborted before start: %w", err)
	}

	log.Info("Starting import",
		logging.Field{Key: logging.FieldCount, Value: len(raws)},
		logging.Field{Key: "workers", Value: e.opts.Workers},
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		stats models.ImportStats
		fatal error
	}

	rawChan := make(chan models.RawTransaction)
	resultChan := make(chan result, len(raws))

	workers := e.opts.Workers
	if workers > len(raws) {
		workers = len(raws)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range rawChan {
				delta, fatal := e.processOne(runCtx, raw, taxonomy, log)
				resultChan <- result{stats: delta, fatal: fatal}
				if fatal != nil {
					cancel()
					return
				}
			}
		}()
	}

	go func() {
		defer close(rawChan)
		for _, raw := range raws {
			select {
			case rawChan <- raw:
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var firstFatal error
	for r := range resultChan {
		stats.Add(r.stats)
		if r.fatal != nil && firstFatal == nil {
			firstFatal = r.fatal
		}
	}

	if firstFatal == nil && ctx.Err() != nil {
		firstFatal = ctx.Err()
	}
	if firstFatal != nil {
		processed := stats.Processed()
		return stats, fmt.Errorf("import aborted: %w (processed %d of %d transactions)", firstFatal, processed, len(raws))
	}

	stats.LogSummary(log, runID)
	return stats, nil
}

// processOne runs the full pipeline for a single raw transaction. The
// returned error is nil for every per-transaction outcome, including
// duplicates, unresolved categorization and failed embeddings; a non-nil
// error means the whole batch must abort.
func (e *Engine) processOne(ctx context.Context, raw models.RawTransaction, taxonomy models.Taxonomy, log logging.Logger) (models.ImportStats, error) {
	var stats models.ImportStats

	if ctx.Err() != nil {
		return stats, ctx.Err()
	}

	tx, accepted, err := e.checkAndRegister(ctx, raw)
	if err != nil {
		return stats, err
	}
	if !accepted {
		stats.DuplicateSkipped++
		log.Debug("Duplicate transaction skipped",
			logging.Field{Key: logging.FieldIdentityKey, Value: raw.Identity().String()},
		)
		return stats, nil
	}
	stats.InsertedNew++

	embedding, err := e.embedder.Embed(ctx, *tx)
	if err != nil {
		stats.FailedEmbedding++
		log.WithError(err).Warn("Embedding failed, transaction persists uncategorized",
			logging.Field{Key: logging.FieldVendor, Value: tx.Vendor},
		)
		if streak := e.embeddingFailureStreak.Add(1); streak >= embeddingFailureAbortThreshold {
			return stats, fmt.Errorf("embedding service unreachable: %w", err)
		}
		return stats, nil
	}
	e.embeddingFailureStreak.Store(0)

	if err := e.store.AttachEmbedding(ctx, tx.ID, embedding); err != nil {
		return stats, err
	}
	tx.Embedding = embedding

	neighbors, err := e.retriever.FindSimilar(ctx, embedding, e.opts.Neighbors)
	if err != nil {
		return stats, err
	}

	outcome, err := e.decider.Categorize(ctx, *tx, neighbors, taxonomy)
	if err != nil {
		if errors.Is(err, pipelineerror.ErrTaxonomyEmpty) {
			stats.Unresolved++
			log.Warn("No categories configured, transaction persists uncategorized",
				logging.Field{Key: logging.FieldVendor, Value: tx.Vendor},
			)
			return stats, nil
		}
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		stats.Unresolved++
		log.WithError(err).Warn("Categorization failed",
			logging.Field{Key: logging.FieldVendor, Value: tx.Vendor},
		)
		return stats, nil
	}

	if !outcome.Resolved {
		stats.Unresolved++
		return stats, nil
	}

	if err := e.store.AttachCategory(ctx, tx.ID, outcome.Category.ID); err != nil {
		return stats, err
	}
	stats.Categorized++
	return stats, nil
}

// checkAndRegister is the dedup guard: it computes the identity key, checks
// for a stored match and inserts the candidate if none exists. The
// check-then-insert sequence runs under the key's lock as one logical unit;
// the lock is released before any external call. A constraint violation from
// a concurrent writer counts as a duplicate, never as a failure.
func (e *Engine) checkAndRegister(ctx context.Context, raw models.RawTransaction) (*models.Transaction, bool, error) {
	key := raw.Identity()

	unlock := e.locks.Lock(key.String())
	defer unlock()

	existing, err := e.store.FindByIdentity(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	tx := &models.Transaction{
		Vendor:      raw.Vendor,
		Amount:      raw.Amount,
		Date:        key.Date,
		Description: raw.Description,
		Source:      raw.Source,
	}
	if err := e.store.Insert(ctx, tx); err != nil {
		if pipelineerror.IsDuplicate(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return tx, true, nil
}

// Recategorize runs the decision step again for every persisted transaction
// still lacking a category: the later pass for embedding failures and
// unresolved outcomes. Transactions are processed sequentially; each failure
// is isolated.
func (e *Engine) Recategorize(ctx context.Context) (models.ImportStats, error) {
	runID := uuid.NewString()
	log := e.logger.WithField(logging.FieldRunID, runID)

	var stats models.ImportStats

	taxonomy, err := e.taxonomies.LoadTaxonomy(ctx)
	if err != nil {
		return stats, err
	}

	pending, err := e.store.ListUncategorized(ctx)
	if err != nil {
		return stats, err
	}
	log.Info("Recategorization pass",
		logging.Field{Key: logging.FieldCount, Value: len(pending)},
	)

	for i := range pending {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		tx := pending[i]

		if !tx.HasEmbedding() {
			embedding, err := e.embedder.Embed(ctx, tx)
			if err != nil {
				stats.FailedEmbedding++
				log.WithError(err).Warn("Embedding still unavailable",
					logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
				)
				continue
			}
			if err := e.store.AttachEmbedding(ctx, tx.ID, embedding); err != nil {
				return stats, err
			}
			tx.Embedding = embedding
		}

		neighbors, err := e.retriever.FindSimilar(ctx, tx.Embedding, e.opts.Neighbors)
		if err != nil {
			return stats, err
		}

		outcome, err := e.decider.Categorize(ctx, tx, neighbors, taxonomy)
		if err != nil || !outcome.Resolved {
			stats.Unresolved++
			continue
		}
		if err := e.store.AttachCategory(ctx, tx.ID, outcome.Category.ID); err != nil {
			return stats, err
		}
		stats.Categorized++
	}

	stats.LogSummary(log, runID)
	return stats, nil
}
