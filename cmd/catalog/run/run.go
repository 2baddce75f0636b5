package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/comfy-catalog/catalog-server/internal/app"
	"github.com/comfy-catalog/catalog-server/internal/config"
	"github.com/comfy-catalog/catalog-server/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Start the catalog server",
	RunE:  runApp,
}

func init() {
	flags := Cmd.Flags()

	flags.Int("port", 8883, "Port to run the server on")
	flags.String("host", "localhost", "Host to run the server on")
	flags.String("environment", "dev", "Environment configuration")
	flags.String("sheet-id", "", "Google Sheet URL or ID holding the catalog")
	flags.Int("refresh-ttl", config.DefaultRefreshTTL, "Snapshot lifetime in seconds")
	flags.String("filesystem-type", "local", "Export storage: 'local' or 's3'")
	flags.String("exports-dir", "", "Directory for stored CSV exports (local mode)")
	flags.String("db-dsn", "", "Database DSN for the local catalog mirror")

	// Bind flags to their snake_case config keys
	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("environment", flags.Lookup("environment"))
	viper.BindPFlag("sheet_id", flags.Lookup("sheet-id"))
	viper.BindPFlag("refresh_ttl", flags.Lookup("refresh-ttl"))
	viper.BindPFlag("filesystem_type", flags.Lookup("filesystem-type"))
	viper.BindPFlag("exports_dir", flags.Lookup("exports-dir"))
	viper.BindPFlag("db.dsn", flags.Lookup("db-dsn"))

	bindEnvs()
}

func bindEnvs() {
	// Core settings (will use CATALOG_ prefix)
	// Example: CATALOG_PORT
	viper.BindEnv("port")
	viper.BindEnv("host")
	viper.BindEnv("environment")
	viper.BindEnv("sheet_id")
	viper.BindEnv("refresh_ttl")
	viper.BindEnv("filesystem_type")
	viper.BindEnv("exports_dir")

	viper.BindEnv("db.dsn")

	// S3 environment bindings (will automatically use CATALOG_ prefix)
	// example: CATALOG_S3_ACCESS_KEY
	viper.BindEnv("s3.access_key")
	viper.BindEnv("s3.secret_key")
	viper.BindEnv("s3.region_name")
	viper.BindEnv("s3.bucket_name")
	viper.BindEnv("s3.folder")
	viper.BindEnv("s3.public_url")
	viper.BindEnv("s3.endpoint_url")
}

func runApp(_ *cobra.Command, _ []string) error {
	a, err := app.NewApp(config.MustGetConfig(),
		app.WithStore(),
		app.WithDBInitialization(),
		app.WithExportStore(),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := a.Context()

	// First fetch before accepting traffic; a failure is tolerable when
	// the disk cache restored a snapshot.
	if snapshot, err := a.Store().Refresh(ctx); err != nil {
		a.Logger.Warn("initial fetch failed", zap.Error(err))
	} else if err := a.CatalogRepository.ReplaceAll(ctx, snapshot); err != nil {
		a.Logger.Error("failed to mirror snapshot", zap.Error(err))
	}

	go func() {
		if err := a.Store().RunRefresher(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error("refresher stopped", zap.Error(err))
		}
	}()

	srv, err := server.NewServer(a.Config())
	if err != nil {
		return err
	}
	srv.SetupRoutes(a)

	errc := make(chan error, 1)
	go func() {
		a.Logger.Info("catalog server started",
			zap.String("host", a.Config().Host),
			zap.Int("port", a.Config().Port),
		)
		errc <- srv.Start()
	}()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-signalc:
		return srv.Stop(ctx)
	}
}
