package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/comfy-catalog/catalog-server/internal/app"
	"github.com/comfy-catalog/catalog-server/internal/catalog"
	"github.com/comfy-catalog/catalog-server/internal/config"
	"github.com/comfy-catalog/catalog-server/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered catalog entries as CSV",
	RunE:  runExport,
}

func init() {
	flags := Cmd.Flags()

	flags.String("kind", "models", "What to export: 'models' or 'workflows'")
	flags.String("output", "", "Output file (defaults to stdout)")
	flags.String("fields", "", "Comma-separated column selection, in order")
	flags.Bool("offline", false, "Read from the local mirror instead of fetching the sheet")

	flags.String("sheet-id", "", "Google Sheet URL or ID holding the catalog")
	flags.String("db-dsn", "", "Database DSN for the local catalog mirror")

	// Filter dimensions; empty means "any".
	flags.String("tipo", "", "Models: exact tipo match (e.g. model, lora)")
	flags.String("base-model", "", "Models: exact base model match")
	flags.String("estilo", "", "Models: exact estilo/utilizacao match")
	flags.String("objetivo", "", "Workflows: exact objetivo match")
	flags.String("versao", "", "Workflows: exact versao match")
	flags.String("q", "", "Free-text search")

	viper.BindPFlag("kind", flags.Lookup("kind"))
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("fields", flags.Lookup("fields"))
	viper.BindPFlag("offline", flags.Lookup("offline"))
	viper.BindPFlag("sheet_id", flags.Lookup("sheet-id"))
	viper.BindPFlag("db.dsn", flags.Lookup("db-dsn"))
	viper.BindPFlag("tipo", flags.Lookup("tipo"))
	viper.BindPFlag("base_model", flags.Lookup("base-model"))
	viper.BindPFlag("estilo", flags.Lookup("estilo"))
	viper.BindPFlag("objetivo", flags.Lookup("objetivo"))
	viper.BindPFlag("versao", flags.Lookup("versao"))
	viper.BindPFlag("q", flags.Lookup("q"))

	viper.BindEnv("sheet_id")
	viper.BindEnv("db.dsn")
}

func runExport(cmd *cobra.Command, _ []string) error {
	offline := viper.GetBool("offline")

	options := []app.OptionFunc{}
	if offline {
		options = append(options, app.WithDBInitialization())
	} else {
		options = append(options, app.WithStore())
	}

	a, err := app.NewApp(config.MustGetConfig(), options...)
	if err != nil {
		return err
	}
	defer a.Close()

	snapshot, err := loadSnapshot(a, offline)
	if err != nil {
		return err
	}

	var fields []string
	if raw := viper.GetString("fields"); raw != "" {
		fields = strings.Split(raw, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
	}

	var out []byte
	switch kind := viper.GetString("kind"); kind {
	case "models":
		filter := catalog.ModelFilter{
			Tipo:             viper.GetString("tipo"),
			BaseModel:        viper.GetString("base_model"),
			EstiloUtilizacao: viper.GetString("estilo"),
			FreeText:         viper.GetString("q"),
		}
		out, err = catalog.ExportModelsCSV(catalog.FilterModels(snapshot.Models, filter), fields)
	case "workflows":
		filter := catalog.WorkflowFilter{
			Objetivo: viper.GetString("objetivo"),
			Versao:   viper.GetString("versao"),
			FreeText: viper.GetString("q"),
		}
		out, err = catalog.ExportWorkflowsCSV(catalog.FilterWorkflows(snapshot.Workflows, filter), fields)
	default:
		return fmt.Errorf("invalid kind %q: expected 'models' or 'workflows'", kind)
	}
	if err != nil {
		return err
	}

	output := viper.GetString("output")
	if output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	return os.WriteFile(output, out, 0644)
}

func loadSnapshot(a *app.App, offline bool) (*store.Snapshot, error) {
	if offline {
		snapshot, err := a.CatalogRepository.LoadSnapshot(a.Context())
		if err != nil {
			return nil, fmt.Errorf("failed to read local mirror (run 'catalog sync' first): %w", err)
		}
		return snapshot, nil
	}

	snapshot, err := a.Store().Refresh(a.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	return snapshot, nil
}
