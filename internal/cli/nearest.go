package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"restorag/internal/adapter/geo"
	"restorag/internal/adapter/snapshot"
	"restorag/internal/usecase"
)

var nearestCmd = &cobra.Command{
	Use:   "nearest <place>",
	Short: "Find the restaurant closest to a place",
	Long: `Geocodes the given place name and returns the restaurant with the
smallest great-circle distance. Restaurants without known coordinates are
skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		place := strings.Join(args, " ")
		logger := slog.Default()

		// No embeddings needed here; load the corpus directly.
		store := snapshot.NewStore(cfg.Snapshot.Path, cfg.Snapshot.DataDir, logger)
		corpus := store.Load()

		geocoder := geo.NewNominatimGeocoder(cfg.Geo.BaseURL, cfg.Geo.CountryCodes, cfg.Geo.UserAgent, cfg.Geo.RatePerSec)
		locator := usecase.NewLocator(geocoder, logger)

		result, err := locator.Nearest(cmd.Context(), place, corpus.GeoEntities())
		if err != nil {
			var nf *usecase.NotFoundError
			if errors.As(err, &nf) {
				fmt.Println(nf.Error())
				return nil
			}
			return err
		}

		fmt.Printf("%s (%.1f km)\n", result.Entity.Name, result.DistanceKm)
		if result.Entity.Address != "" {
			fmt.Println(result.Entity.Address)
		}
		if result.Entity.Phone != "" {
			fmt.Println(result.Entity.Phone)
		}
		if result.Entity.URL != "" {
			fmt.Println(result.Entity.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nearestCmd)
}
