package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagTopK int
	flagJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Semantic search over the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		a, err := buildApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		k := flagTopK
		if k < 1 {
			k = cfg.Retrieve.TopK
		}

		results, err := a.engine.Search(cmd.Context(), query, k)
		if err != nil {
			return err
		}

		if flagJSON {
			type hit struct {
				ID       string  `json:"id"`
				Kind     string  `json:"kind"`
				Title    string  `json:"title"`
				Score    float64 `json:"score"`
				Distance float64 `json:"distance"`
				Text     string  `json:"text"`
			}
			hits := make([]hit, len(results))
			for i, r := range results {
				hits[i] = hit{
					ID:       r.Unit.ID,
					Kind:     string(r.Unit.Kind),
					Title:    r.Unit.Title,
					Score:    r.Score,
					Distance: r.Distance,
					Text:     r.Unit.Text,
				}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(hits)
		}

		if len(results) == 0 {
			fmt.Println("No results.")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%d. [%s] %s (score %.4f)\n", i+1, r.Unit.Kind, r.Unit.Title, r.Score)
			text := r.Unit.Text
			if len(text) > 200 {
				text = text[:200] + "..."
			}
			fmt.Printf("   %s\n\n", strings.ReplaceAll(text, "\n", "\n   "))
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVarP(&flagTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&flagJSON, "json", false, "emit results as JSON")
	rootCmd.AddCommand(queryCmd)
}
