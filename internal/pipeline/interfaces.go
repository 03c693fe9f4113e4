package pipeline

import (
	"context"

	"fjacquet/expense-analyzer/internal/categorizer"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/retriever"
)

// TransactionStore is the persistence collaborator surface the pipeline
// needs. The store's uniqueness constraint is the authoritative dedup
// mechanism; the pipeline-level identity check is a fast-path optimization.
type TransactionStore interface {
	FindByIdentity(ctx context.Context, key models.IdentityKey) (*models.Transaction, error)
	Insert(ctx context.Context, tx *models.Transaction) error
	AttachEmbedding(ctx context.Context, id uint, embedding models.Vector) error
	AttachCategory(ctx context.Context, id uint, categoryID uint) error
	ListUncategorized(ctx context.Context) ([]models.Transaction, error)
}

// TaxonomyLoader supplies the category snapshot, refreshed once per run.
type TaxonomyLoader interface {
	LoadTaxonomy(ctx context.Context) (models.Taxonomy, error)
}

// Embedder computes a transaction's embedding vector.
type Embedder interface {
	Embed(ctx context.Context, tx models.Transaction) (models.Vector, error)
}

// SimilarityRetriever finds the most similar categorized transactions.
type SimilarityRetriever interface {
	FindSimilar(ctx context.Context, embedding models.Vector, k int) ([]retriever.Neighbor, error)
}

// Decider runs the categorization decision step.
type Decider interface {
	Categorize(ctx context.Context, tx models.Transaction, neighbors []retriever.Neighbor, taxonomy models.Taxonomy) (categorizer.Outcome, error)
}
