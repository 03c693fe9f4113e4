// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`

	AI struct {
		Provider           string `mapstructure:"provider" yaml:"provider"`
		Model              string `mapstructure:"model" yaml:"model"`
		EmbeddingModel     string `mapstructure:"embedding_model" yaml:"embedding_model"`
		EmbeddingDimension int    `mapstructure:"embedding_dimension" yaml:"embedding_dimension"`
		RequestsPerMinute  int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		TimeoutSeconds     int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		GeminiAPIKey       string `mapstructure:"gemini_api_key" yaml:"-"` // Never serialize API keys
		OpenAIAPIKey       string `mapstructure:"openai_api_key" yaml:"-"`
	} `mapstructure:"ai" yaml:"ai"`

	Pipeline struct {
		Neighbors int `mapstructure:"neighbors" yaml:"neighbors"`
		Workers   int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"pipeline" yaml:"pipeline"`

	Categories struct {
		SeedFile string `mapstructure:"seed_file" yaml:"seed_file"`
	} `mapstructure:"categories" yaml:"categories"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.expense-analyzer")
	v.AddConfigPath(".expense-analyzer")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("EXPENSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. API keys always come from their conventional env variables
	if err := v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("ai.openai_api_key", "OPENAI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind OPENAI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Database defaults
	v.SetDefault("database.path", "expenses.db")

	// AI defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.embedding_model", "text-embedding-004")
	v.SetDefault("ai.embedding_dimension", 1536)
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", 30)

	// Pipeline defaults
	v.SetDefault("pipeline.neighbors", 10)
	v.SetDefault("pipeline.workers", 4)

	// Category seed defaults
	v.SetDefault("categories.seed_file", "categories.yaml")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.AI.Provider != "gemini" && config.AI.Provider != "openai" {
		return fmt.Errorf("invalid AI provider: %s (must be 'gemini' or 'openai')", config.AI.Provider)
	}

	if config.AI.EmbeddingDimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", config.AI.EmbeddingDimension)
	}

	if config.AI.RequestsPerMinute <= 0 {
		return fmt.Errorf("AI requests per minute must be positive, got %d", config.AI.RequestsPerMinute)
	}

	if config.Pipeline.Neighbors <= 0 {
		return fmt.Errorf("neighbor count must be positive, got %d", config.Pipeline.Neighbors)
	}

	if config.Pipeline.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", config.Pipeline.Workers)
	}

	return nil
}
