// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single financial event persisted by the pipeline.
//
// A transaction is created in an uncategorized state by a statement parser
// and mutated exactly once by the ingestion pipeline to attach its embedding
// and category. The composite unique index over (vendor, amount, date,
// description) is the Identity Key: two rows matching on all four fields are
// the same real-world event and must collapse to one stored row.
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	Vendor      string          `gorm:"type:varchar(255);not null;uniqueIndex:uix_transaction_identity"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null;uniqueIndex:uix_transaction_identity"`
	Date        time.Time       `gorm:"type:date;not null;uniqueIndex:uix_transaction_identity"`
	Description string          `gorm:"type:text;not null;default:'';uniqueIndex:uix_transaction_identity"`
	Source      Source          `gorm:"type:varchar(32);not null;default:'unknown'"`
	CategoryID  *uint           `gorm:"index"`
	Embedding   Vector          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// RawTransaction is a transaction record as produced by a statement parser:
// identity fields populated, no embedding, no category. The pipeline consumes
// these in file order; they are not guaranteed deduplicated.
type RawTransaction struct {
	Vendor      string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Source      Source
}

// IdentityKey is the derived (vendor, amount, date, description) tuple used
// to detect duplicate transactions. It is computed, never stored as-is.
// Amounts compare exactly: 12.50 and 12.5 are the same key, 12.50 and 12.49
// are not. An empty description participates as an empty string, not as a
// wildcard.
type IdentityKey struct {
	Vendor      string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

// Identity returns the raw transaction's identity key with the date
// normalized to midnight UTC so equal calendar dates always compare equal.
func (r RawTransaction) Identity() IdentityKey {
	return IdentityKey{
		Vendor:      r.Vendor,
		Amount:      r.Amount,
		Date:        NormalizeDate(r.Date),
		Description: r.Description,
	}
}

// Equal reports whether two identity keys refer to the same real-world event.
func (k IdentityKey) Equal(other IdentityKey) bool {
	return k.Vendor == other.Vendor &&
		k.Amount.Equal(other.Amount) &&
		k.Date.Equal(other.Date) &&
		k.Description == other.Description
}

// String renders the key for log output.
func (k IdentityKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.Vendor, k.Amount.String(), k.Date.Format("2006-01-02"), k.Description)
}

// NormalizeDate truncates a timestamp to its calendar date in UTC.
// Transactions carry no time component.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Identity returns the persisted transaction's identity key.
func (t Transaction) Identity() IdentityKey {
	return IdentityKey{
		Vendor:      t.Vendor,
		Amount:      t.Amount,
		Date:        NormalizeDate(t.Date),
		Description: t.Description,
	}
}

// IsExpense reports whether the transaction is an expense (negative amount).
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction is income (positive amount).
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsCategorized reports whether a category has been attached.
func (t Transaction) IsCategorized() bool {
	return t.CategoryID != nil
}

// HasEmbedding reports whether an embedding has been attached.
func (t Transaction) HasEmbedding() bool {
	return len(t.Embedding) > 0
}
