package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIdentityKeyEqual(t *testing.T) {
	base := IdentityKey{
		Vendor:      "Coffee Shop",
		Amount:      decimal.RequireFromString("-12.50"),
		Date:        date(2026, 3, 14),
		Description: "latte",
	}

	tests := []struct {
		name  string
		other IdentityKey
		equal bool
	}{
		{
			name:  "identical",
			other: base,
			equal: true,
		},
		{
			name: "same amount different scale",
			other: IdentityKey{
				Vendor:      "Coffee Shop",
				Amount:      decimal.RequireFromString("-12.5"),
				Date:        date(2026, 3, 14),
				Description: "latte",
			},
			equal: true,
		},
		{
			name: "amount off by one cent",
			other: IdentityKey{
				Vendor:      "Coffee Shop",
				Amount:      decimal.RequireFromString("-12.49"),
				Date:        date(2026, 3, 14),
				Description: "latte",
			},
			equal: false,
		},
		{
			name: "different vendor",
			other: IdentityKey{
				Vendor:      "Coffee Shop 2",
				Amount:      decimal.RequireFromString("-12.50"),
				Date:        date(2026, 3, 14),
				Description: "latte",
			},
			equal: false,
		},
		{
			name: "different date",
			other: IdentityKey{
				Vendor:      "Coffee Shop",
				Amount:      decimal.RequireFromString("-12.50"),
				Date:        date(2026, 3, 15),
				Description: "latte",
			},
			equal: false,
		},
		{
			name: "empty description is a distinct value",
			other: IdentityKey{
				Vendor:      "Coffee Shop",
				Amount:      decimal.RequireFromString("-12.50"),
				Date:        date(2026, 3, 14),
				Description: "",
			},
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, base.Equal(tt.other))
		})
	}
}

func TestRawTransactionIdentityNormalizesDate(t *testing.T) {
	raw := RawTransaction{
		Vendor:      "Grocery Store",
		Amount:      decimal.RequireFromString("-45.00"),
		Date:        time.Date(2026, 3, 14, 17, 30, 12, 0, time.FixedZone("CET", 3600)),
		Description: "weekly shop",
	}

	key := raw.Identity()
	assert.Equal(t, date(2026, 3, 14), key.Date)
	assert.Equal(t, time.UTC, key.Date.Location())
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2026, 7, 1, 23, 59, 59, 999, time.UTC)
	out := NormalizeDate(in)

	assert.Equal(t, date(2026, 7, 1), out)
}

func TestIdentityKeyString(t *testing.T) {
	key := IdentityKey{
		Vendor:      "Coffee Shop",
		Amount:      decimal.RequireFromString("-12.50"),
		Date:        date(2026, 3, 14),
		Description: "latte",
	}

	assert.Equal(t, "Coffee Shop|-12.5|2026-03-14|latte", key.String())
}

func TestTransactionPredicates(t *testing.T) {
	expense := Transaction{Amount: decimal.RequireFromString("-10.00")}
	income := Transaction{Amount: decimal.RequireFromString("250.00")}

	assert.True(t, expense.IsExpense())
	assert.False(t, expense.IsIncome())
	assert.True(t, income.IsIncome())
	assert.False(t, income.IsExpense())

	assert.False(t, expense.IsCategorized())
	assert.False(t, expense.HasEmbedding())

	catID := uint(3)
	expense.CategoryID = &catID
	expense.Embedding = Vector{0.1, 0.2}
	assert.True(t, expense.IsCategorized())
	assert.True(t, expense.HasEmbedding())
}
