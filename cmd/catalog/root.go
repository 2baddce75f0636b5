package cmd

import (
	"fmt"
	"os"
	"strings"

	// Subcommands
	export "github.com/comfy-catalog/catalog-server/cmd/catalog/export"
	run "github.com/comfy-catalog/catalog-server/cmd/catalog/run"
	sync "github.com/comfy-catalog/catalog-server/cmd/catalog/sync"
	"github.com/comfy-catalog/catalog-server/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CATALOG"

var Cmd = &cobra.Command{
	Use:   "catalog",
	Short: "ComfyUI catalog server",
	Long:  "Serves a filterable catalog of ComfyUI models, LoRAs and workflows kept in a Google Sheet",

	// Runs before this command and any subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(
			`-`, `_`,
			`.`, `_`,
		))
		viper.AutomaticEnv()

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		return config.LoadEnvAndConfigFiles()
	},
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("catalog-home", "", "Path to the catalog home directory")
	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")

	viper.BindPFlag("catalog_home", pflags.Lookup("catalog-home"))
	viper.BindPFlag("config_file", pflags.Lookup("config-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))

	Cmd.AddCommand(run.Cmd, sync.Cmd, export.Cmd)
	Cmd.CompletionOptions.HiddenDefaultCmd = true
}
