package cmd

import (
	"fmt"

	"github.com/comfy-catalog/catalog-server/internal/app"
	"github.com/comfy-catalog/catalog-server/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the spreadsheet once and mirror it into the local database",
	RunE:  runSync,
}

func init() {
	flags := Cmd.Flags()

	flags.String("sheet-id", "", "Google Sheet URL or ID holding the catalog")
	flags.String("db-dsn", "", "Database DSN for the local catalog mirror")

	viper.BindPFlag("sheet_id", flags.Lookup("sheet-id"))
	viper.BindPFlag("db.dsn", flags.Lookup("db-dsn"))

	viper.BindEnv("sheet_id")
	viper.BindEnv("db.dsn")
}

func runSync(_ *cobra.Command, _ []string) error {
	a, err := app.NewApp(config.MustGetConfig(),
		app.WithStore(),
		app.WithDBInitialization(),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	snapshot, err := a.Store().Refresh(a.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if err := a.CatalogRepository.ReplaceAll(a.Context(), snapshot); err != nil {
		return fmt.Errorf("failed to mirror snapshot: %w", err)
	}

	fmt.Printf("Synced %d models/LoRAs and %d workflows (digest %s)\n",
		len(snapshot.Models), len(snapshot.Workflows), snapshot.Digest[:12])

	return nil
}
