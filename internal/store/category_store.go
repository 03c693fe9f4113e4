package store

import (
	"context"
	"fmt"
	"os"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// CategoryStore manages the read-only category taxonomy and its seeding.
type CategoryStore struct {
	db     *gorm.DB
	logger logging.Logger
}

// NewCategoryStore creates a CategoryStore over an open database.
func NewCategoryStore(db *gorm.DB, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CategoryStore{db: db, logger: logger}
}

// LoadTaxonomy reads the full category listing and returns it as an
// immutable snapshot. Refreshed once per pipeline run, not per transaction.
func (s *CategoryStore) LoadTaxonomy(ctx context.Context) (models.Taxonomy, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return models.Taxonomy{}, fmt.Errorf("failed to load categories: %w", err)
	}
	return models.NewTaxonomy(categories), nil
}

// seedFile is the YAML shape of a category seed file: root categories with
// their subcategories.
type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories"`
}

// SeedFromYAML loads the two-level category tree from a YAML file, creating
// missing nodes and leaving existing ones untouched. Safe to re-run.
func (s *CategoryStore) SeedFromYAML(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	created := 0
	for _, root := range seed.Categories {
		parent := models.Category{Name: root.Name}
		result := s.db.WithContext(ctx).Where("name = ?", root.Name).FirstOrCreate(&parent)
		if result.Error != nil {
			return created, fmt.Errorf("failed to seed category %s: %w", root.Name, result.Error)
		}
		if result.RowsAffected > 0 {
			created++
		}

		for _, sub := range root.Subcategories {
			child := models.Category{Name: sub, ParentID: &parent.ID}
			result := s.db.WithContext(ctx).Where("name = ?", sub).FirstOrCreate(&child)
			if result.Error != nil {
				return created, fmt.Errorf("failed to seed subcategory %s: %w", sub, result.Error)
			}
			if result.RowsAffected > 0 {
				created++
			}
		}
	}

	s.logger.Info("Category seeding finished",
		logging.Field{Key: logging.FieldCount, Value: created},
	)
	return created, nil
}
