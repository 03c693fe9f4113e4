package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestNewTaxonomyAssignableSet(t *testing.T) {
	t.Run("two-level tree assigns leaves only", func(t *testing.T) {
		taxonomy := NewTaxonomy([]Category{
			{ID: 1, Name: "Food"},
			{ID: 2, Name: "Groceries", ParentID: uintPtr(1)},
			{ID: 3, Name: "Restaurants", ParentID: uintPtr(1)},
			{ID: 4, Name: "Transport"},
		})

		assert.Equal(t, 4, taxonomy.Len())
		assert.Len(t, taxonomy.Assignable(), 2)
		assert.False(t, taxonomy.Contains(1))
		assert.True(t, taxonomy.Contains(2))
		assert.True(t, taxonomy.Contains(3))
		assert.False(t, taxonomy.Contains(4))
	})

	t.Run("flat taxonomy assigns everything", func(t *testing.T) {
		taxonomy := NewTaxonomy([]Category{
			{ID: 1, Name: "Food"},
			{ID: 2, Name: "Transport"},
		})

		assert.Len(t, taxonomy.Assignable(), 2)
		assert.True(t, taxonomy.Contains(1))
		assert.True(t, taxonomy.Contains(2))
	})

	t.Run("empty listing is empty", func(t *testing.T) {
		taxonomy := NewTaxonomy(nil)

		assert.True(t, taxonomy.IsEmpty())
		assert.False(t, taxonomy.Contains(1))
	})
}

func TestTaxonomyByID(t *testing.T) {
	taxonomy := NewTaxonomy([]Category{
		{ID: 1, Name: "Food"},
		{ID: 2, Name: "Groceries", ParentID: uintPtr(1)},
	})

	c, ok := taxonomy.ByID(2)
	assert.True(t, ok)
	assert.Equal(t, "Groceries", c.Name)

	_, ok = taxonomy.ByID(99)
	assert.False(t, ok)
}

func TestTaxonomySnapshotIsolation(t *testing.T) {
	source := []Category{{ID: 1, Name: "Food"}}
	taxonomy := NewTaxonomy(source)

	source[0].Name = "Mutated"

	c, ok := taxonomy.ByID(1)
	assert.True(t, ok)
	assert.Equal(t, "Food", c.Name)
}
