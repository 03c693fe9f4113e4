package store

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/pipelineerror"

	"gorm.io/gorm"
)

// TransactionStore is the persistence collaborator for transactions:
// identity-key lookup, durable insert under the uniqueness constraint, and
// the attach updates for embedding and category.
type TransactionStore struct {
	db     *gorm.DB
	logger logging.Logger
}

// NewTransactionStore creates a TransactionStore over an open database.
func NewTransactionStore(db *gorm.DB, logger logging.Logger) *TransactionStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &TransactionStore{db: db, logger: logger}
}

// FindByIdentity returns the stored transaction matching the identity key,
// or nil when no match exists. Vendor, date and description match in SQL;
// the amount comparison is finished in Go with exact decimal equality so the
// dialect's numeric affinity can never produce a false duplicate.
func (s *TransactionStore) FindByIdentity(ctx context.Context, key models.IdentityKey) (*models.Transaction, error) {
	var candidates []models.Transaction
	err := s.db.WithContext(ctx).
		Where("vendor = ? AND date = ? AND description = ?", key.Vendor, key.Date, key.Description).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("identity lookup failed: %w", err)
	}

	for i := range candidates {
		if candidates[i].Amount.Equal(key.Amount) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// Insert durably writes a new transaction. A unique-index violation from a
// concurrent writer surfaces as a ConflictError; callers treat it exactly
// like a duplicate.
func (s *TransactionStore) Insert(ctx context.Context, tx *models.Transaction) error {
	tx.Date = models.NormalizeDate(tx.Date)
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.WithFields(
				logging.Field{Key: logging.FieldIdentityKey, Value: tx.Identity().String()},
			).Debug("Insert lost the race to a concurrent writer")
			return &pipelineerror.ConflictError{Key: tx.Identity().String(), Err: err}
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// AttachEmbedding stores the computed embedding for a transaction.
func (s *TransactionStore) AttachEmbedding(ctx context.Context, id uint, embedding models.Vector) error {
	result := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("embedding", embedding)
	if result.Error != nil {
		return fmt.Errorf("failed to attach embedding: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

// AttachCategory stores the assigned category for a transaction.
func (s *TransactionStore) AttachCategory(ctx context.Context, id uint, categoryID uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("category_id", categoryID)
	if result.Error != nil {
		return fmt.Errorf("failed to attach category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

// ListCategorized returns the neighbor candidate pool: transactions that
// already have both an embedding and a category. Uncategorized rows are
// excluded so an unknown category is never propagated.
func (s *TransactionStore) ListCategorized(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("embedding IS NOT NULL AND category_id IS NOT NULL").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categorized transactions: %w", err)
	}
	return transactions, nil
}

// ListUncategorized returns transactions still awaiting a category, the
// input set for a later categorization pass.
func (s *TransactionStore) ListUncategorized(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Where("category_id IS NULL").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list uncategorized transactions: %w", err)
	}
	return transactions, nil
}

// Count returns the total number of stored transactions.
func (s *TransactionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
