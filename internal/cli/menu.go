package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"restorag/internal/adapter/snapshot"
)

var (
	flagVegetarian bool
	flagMaxPrice   float64
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List menu dishes, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := snapshot.NewStore(cfg.Snapshot.Path, cfg.Snapshot.DataDir, slog.Default())
		corpus := store.Load()

		dishes := corpus.FilterDishes(snapshot.DishFilter{
			Vegetarian: flagVegetarian,
			MaxPrice:   flagMaxPrice,
		})
		if len(dishes) == 0 {
			fmt.Println("No dishes match.")
			return nil
		}

		for _, d := range dishes {
			line := d.Title
			if prix := d.Metadata["prix"]; prix != "" {
				line += " - " + prix
			}
			if tags := d.Metadata["tags"]; tags != "" {
				line += " [" + tags + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	menuCmd.Flags().BoolVar(&flagVegetarian, "vegetarian", false, "only vegetarian dishes")
	menuCmd.Flags().Float64Var(&flagMaxPrice, "max-price", 0, "maximum price in euros (0 = no limit)")
	rootCmd.AddCommand(menuCmd)
}
