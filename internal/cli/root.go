package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"restorag/config"
)

var (
	cfg *config.Config

	flagConfig       string
	flagSnapshot     string
	flagForceRebuild bool
	flagMock         bool
)

var rootCmd = &cobra.Command{
	Use:   "ragd",
	Short: "Retrieval-augmented answering over the restaurant knowledge base",
	Long: `ragd indexes a scraped restaurant knowledge snapshot and answers
questions against it: semantic search, nearest-restaurant lookup and
validated chat answers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if flagConfig != "" {
			cfg, err = config.Load(flagConfig)
		} else {
			cfg, err = config.LoadFromDir(".")
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if flagSnapshot != "" {
			cfg.Snapshot.Path = flagSnapshot
		}
		if flagForceRebuild {
			cfg.Snapshot.ForceRebuild = true
		}
		if flagMock {
			cfg.Embedding.Provider = "mock"
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel(),
		})))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default ./restorag.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagSnapshot, "snapshot", "", "corpus snapshot path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagForceRebuild, "force-rebuild", false, "re-embed the whole corpus, ignoring the cache")
	rootCmd.PersistentFlags().BoolVar(&flagMock, "mock", false, "use the deterministic mock embedder (offline)")
}
