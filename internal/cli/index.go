package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index from the corpus snapshot",
	Long: `Loads the snapshot, embeds every retrievable unit and persists the
embeddings. An unchanged snapshot reuses the cached embeddings and costs
nothing; pass --force-rebuild to re-embed everything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Indexed %d units (%d restaurants) from %s\n",
			len(a.corpus.Units), len(a.corpus.Restaurants), cfg.Snapshot.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
