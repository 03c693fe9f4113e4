// Package container provides dependency injection for the expense-analyzer
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"fjacquet/expense-analyzer/internal/aiclient"
	"fjacquet/expense-analyzer/internal/categorizer"
	"fjacquet/expense-analyzer/internal/config"
	"fjacquet/expense-analyzer/internal/embedder"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/pipeline"
	"fjacquet/expense-analyzer/internal/retriever"
	"fjacquet/expense-analyzer/internal/store"

	"gorm.io/gorm"
)

// Container holds all application dependencies. It is immutable after
// creation; components are reached through getter methods only.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	db           *gorm.DB
	transactions *store.TransactionStore
	categories   *store.CategoryStore
	engine       *pipeline.Engine
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Logger first, every other component needs it
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	transactions := store.NewTransactionStore(db, logger)
	categories := store.NewCategoryStore(db, logger)

	client, err := newAIClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	txEmbedder := embedder.NewTransactionEmbedder(client, cfg.AI.EmbeddingDimension, logger)
	similarity := retriever.NewRetriever(transactions, logger)
	decider := categorizer.NewEngine(client, logger)

	engine := pipeline.NewEngine(
		transactions,
		categories,
		txEmbedder,
		similarity,
		decider,
		pipeline.Options{
			Neighbors: cfg.Pipeline.Neighbors,
			Workers:   cfg.Pipeline.Workers,
		},
		logger,
	)

	return &Container{
		logger:       logger,
		config:       cfg,
		db:           db,
		transactions: transactions,
		categories:   categories,
		engine:       engine,
	}, nil
}

func newAIClient(ctx context.Context, cfg *config.Config, logger logging.Logger) (aiclient.Client, error) {
	apiKey := cfg.AI.GeminiAPIKey
	if cfg.AI.Provider == "openai" {
		apiKey = cfg.AI.OpenAIAPIKey
	}
	if apiKey == "" {
		// Commands that never reach the AI (seed, duplicate-only imports)
		// still work; embedding and categorization report unavailability.
		logger.Warn("No API key configured, AI calls disabled",
			logging.Field{Key: logging.FieldProvider, Value: cfg.AI.Provider},
		)
		return aiclient.Disabled(), nil
	}
	client, err := aiclient.New(ctx, cfg.AI.Provider, apiKey, aiclient.Options{
		Model:             cfg.AI.Model,
		EmbeddingModel:    cfg.AI.EmbeddingModel,
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
		Timeout:           time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	logger.Info("AI client ready",
		logging.Field{Key: logging.FieldProvider, Value: cfg.AI.Provider},
	)
	return client, nil
}

// Logger returns the configured logger.
func (c *Container) Logger() logging.Logger {
	return c.logger
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Transactions returns the transaction store.
func (c *Container) Transactions() *store.TransactionStore {
	return c.transactions
}

// Categories returns the category store.
func (c *Container) Categories() *store.CategoryStore {
	return c.categories
}

// Engine returns the ingestion pipeline engine.
func (c *Container) Engine() *pipeline.Engine {
	return c.engine
}

// Close releases held resources.
func (c *Container) Close() error {
	return store.Close(c.db)
}
