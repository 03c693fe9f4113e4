// Package ingest implements the statement import command.
package ingest

import (
	"fmt"

	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/reader"

	"github.com/spf13/cobra"
)

var (
	inputFile string
	sourceTag string
)

// Cmd is the ingest command: read a parsed-statement CSV and run the full
// ingestion pipeline over it.
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import a parsed-statement CSV through the categorization pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == "" {
			return fmt.Errorf("input file is required")
		}

		ctx := cmd.Context()
		c, err := container.NewContainer(ctx, root.Cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Close(); err != nil {
				c.Logger().WithError(err).Warn("Failed to close container")
			}
		}()

		csvReader := reader.NewCSVReader(models.Source(sourceTag), c.Logger())
		raws, err := csvReader.Read(inputFile)
		if err != nil {
			return err
		}

		stats, err := c.Engine().Run(ctx, raws)
		if err != nil {
			return err
		}

		fmt.Printf("Inserted: %d  Duplicates: %d  Categorized: %d  Unresolved: %d  Failed embedding: %d\n",
			stats.InsertedNew, stats.DuplicateSkipped, stats.Categorized, stats.Unresolved, stats.FailedEmbedding)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Parsed-statement CSV file to import")
	Cmd.Flags().StringVarP(&sourceTag, "source", "s", string(models.SourceCSV), "Source tag for imported transactions")
}
