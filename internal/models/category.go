package models

// Category is a named node in a two-level tree. Root categories have no
// parent; subcategories point at a root. Categories are read-only inputs to
// the pipeline, created by the seeding step.
type Category struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(128);not null;uniqueIndex"`
	ParentID *uint  `gorm:"index"`

	Parent *Category `gorm:"foreignKey:ParentID"`
}

// IsRoot reports whether the category is a top-level node.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// Taxonomy is an immutable snapshot of the category tree, loaded once per
// pipeline run and passed explicitly into each categorization call so that
// concurrent batches never observe a taxonomy changing mid-run.
type Taxonomy struct {
	categories []Category
	byID       map[uint]Category
	assignable []Category
}

// NewTaxonomy builds a snapshot from the stored category listing.
// The assignable set is the subcategories when any exist (leaf assignment,
// matching the two-level tree) and the whole listing for a flat taxonomy.
func NewTaxonomy(categories []Category) Taxonomy {
	t := Taxonomy{
		categories: make([]Category, len(categories)),
		byID:       make(map[uint]Category, len(categories)),
	}
	copy(t.categories, categories)
	for _, c := range t.categories {
		t.byID[c.ID] = c
	}
	for _, c := range t.categories {
		if !c.IsRoot() {
			t.assignable = append(t.assignable, c)
		}
	}
	if len(t.assignable) == 0 {
		t.assignable = t.categories
	}
	return t
}

// ByID looks up a category in the snapshot.
func (t Taxonomy) ByID(id uint) (Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// Contains reports whether id names a category in the assignable set.
// Only assignable identifiers are valid model output.
func (t Taxonomy) Contains(id uint) bool {
	for _, c := range t.assignable {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Assignable returns the categories the decision engine may assign.
func (t Taxonomy) Assignable() []Category {
	return t.assignable
}

// Len returns the total number of categories in the snapshot.
func (t Taxonomy) Len() int {
	return len(t.categories)
}

// IsEmpty reports whether the snapshot has no assignable categories.
func (t Taxonomy) IsEmpty() bool {
	return len(t.assignable) == 0
}
