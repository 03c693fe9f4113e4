// Package root contains the root command for the application
package root

import (
	"fjacquet/expense-analyzer/internal/config"
	"fjacquet/expense-analyzer/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRunE.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expense-analyzer",
		Short: "Ingest, deduplicate and categorize financial transactions.",
		Long: `expense-analyzer ingests parsed financial transactions, rejects
duplicates, and assigns each new transaction a spending category by combining
semantic similarity search over previously categorized transactions with a
language-model decision step.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to expense-analyzer!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			logging.SetDefault(Log)
			return nil
		},
	}
)
