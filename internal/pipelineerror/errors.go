// Package pipelineerror defines the error taxonomy of the ingestion pipeline.
// Per-transaction failures carry one of these types so callers can route the
// transaction (skip, retry later, fall back) without aborting the batch.
package pipelineerror

import (
	"errors"
	"fmt"
)

// Sentinel errors for routing with errors.Is.
var (
	// ErrDuplicateTransaction signals the dedup guard rejected a candidate
	// whose identity key matches a stored row. Expected, not a failure.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrEmbeddingUnavailable signals the embedding service failed or
	// returned malformed output. Transient; the transaction persists
	// uncategorized for a later pass.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrInvalidModelResponse signals the model returned a category outside
	// the taxonomy or unparsable text.
	ErrInvalidModelResponse = errors.New("invalid model response")

	// ErrTaxonomyEmpty signals no categories are configured. Fatal for the
	// categorization step only; the transaction persists uncategorized.
	ErrTaxonomyEmpty = errors.New("taxonomy is empty")

	// ErrPersistenceConflict signals a concurrent writer already inserted
	// the same identity key. Treated identically to a duplicate.
	ErrPersistenceConflict = errors.New("persistence conflict")
)

// DuplicateError reports a rejected candidate together with the key it
// collided on.
type DuplicateError struct {
	Key string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate transaction for identity key %s", e.Key)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateTransaction
}

// EmbeddingError reports a failed embedding call.
type EmbeddingError struct {
	Vendor string
	Err    error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed for %s: %v", e.Vendor, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return ErrEmbeddingUnavailable
}

// ModelResponseError reports an unusable completion. RawResponse is kept for
// the audit trail.
type ModelResponseError struct {
	RawResponse string
	Reason      string
}

func (e *ModelResponseError) Error() string {
	return fmt.Sprintf("invalid model response (%s): %q", e.Reason, e.RawResponse)
}

func (e *ModelResponseError) Unwrap() error {
	return ErrInvalidModelResponse
}

// ConflictError reports a unique-constraint violation raised by the
// persistence layer during insert.
type ConflictError struct {
	Key string
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent insert for identity key %s: %v", e.Key, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return ErrPersistenceConflict
}

// IsDuplicate reports whether err means the transaction already exists,
// either via the guard's fast path or the constraint's authoritative one.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction) || errors.Is(err, ErrPersistenceConflict)
}
