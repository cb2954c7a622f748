package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/sladica/internal/db"
	"github.com/erazemk/sladica/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo menu",
	Long: `Insert the demo menu: categories and items into an empty menu, and the
menu constants that are missing. Running it again changes nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := db.EnsureSchema(database); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}

		res, err := store.SeedMenu(cmd.Context(), database)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d categories, %d items, %d constants.\n", res.Categories, res.Items, res.Constants)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
