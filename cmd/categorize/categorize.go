// Package categorize implements the recategorization command.
package categorize

import (
	"fmt"

	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/internal/container"

	"github.com/spf13/cobra"
)

// Cmd is the categorize command: re-run the decision step for persisted
// transactions that are still uncategorized, embedding them first if a
// previous pass failed at the embedding step.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Retry categorization for transactions without a category",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		stats, err := c.Engine().Recategorize(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Categorized: %d  Unresolved: %d  Failed embedding: %d\n",
			stats.Categorized, stats.Unresolved, stats.FailedEmbedding)
		return nil
	},
}
