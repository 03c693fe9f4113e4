// Package seed implements the category seeding command.
package seed

import (
	"fmt"

	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/internal/container"

	"github.com/spf13/cobra"
)

var seedFile string

// Cmd is the seed command: load the two-level category tree from a YAML
// file. Existing categories are left untouched, so re-running is safe.
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the category taxonomy from a YAML file",
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

		path := seedFile
		if path == "" {
			path = root.Cfg.Categories.SeedFile
		}

		created, err := c.Categories().SeedFromYAML(ctx, path)
		if err != nil {
			return err
		}

		fmt.Printf("Created %d categories from %s\n", created, path)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&seedFile, "file", "f", "", "Category seed YAML file")
}
