package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/comfy-catalog/catalog-server/internal/utils/pathutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CATALOG"

type Config struct {
	Port        int    `mapstructure:"port"`
	Host        string `mapstructure:"host"`
	Environment string `mapstructure:"environment"`
	CatalogHome string `mapstructure:"catalog_home"`
	ExportsDir  string `mapstructure:"exports_dir"`
	CacheDir    string `mapstructure:"cache_dir"`

	// SheetID accepts either a bare Google Sheet ID or the full URL.
	SheetID      string `mapstructure:"sheet_id"`
	ModelsTab    string `mapstructure:"models_tab"`
	WorkflowsTab string `mapstructure:"workflows_tab"`

	// RefreshTTL is the snapshot lifetime in seconds.
	RefreshTTL int `mapstructure:"refresh_ttl"`

	FilesystemType string    `mapstructure:"filesystem_type"`
	DB             *DBConfig `mapstructure:"db"`
	S3             *S3Config `mapstructure:"s3"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type S3Config struct {
	Folder      string `mapstructure:"folder"`
	Region      string `mapstructure:"region_name"`
	Bucket      string `mapstructure:"bucket_name"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	PublicUrl   string `mapstructure:"public_url"`
	EndpointUrl string `mapstructure:"endpoint_url"`
}

var config *Config

// LoadEnvAndConfigFiles resolves the catalog home, loads the .env and
// config.yaml files when present, and unmarshals everything into the
// package-level config.
func LoadEnvAndConfigFiles() error {
	catalogHome, err := getCatalogHome()
	if err != nil {
		return err
	}

	viper.Set("catalog_home", catalogHome)
	viper.SetDefault("exports_dir", filepath.Join(catalogHome, "exports"))
	viper.SetDefault("cache_dir", filepath.Join(catalogHome, "cache"))
	viper.SetDefault("models_tab", DefaultModelsTab)
	viper.SetDefault("workflows_tab", DefaultWorkflowsTab)
	viper.SetDefault("refresh_ttl", DefaultRefreshTTL)
	viper.SetDefault("filesystem_type", FilesystemLocal)
	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("db.dsn", filepath.Join(catalogHome, "catalog.db"))

	envFile := viper.GetString("env_file")
	if envFile == "" {
		envFile = filepath.Join(catalogHome, ".env")
	}

	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	viper.AutomaticEnv()

	configFile := viper.GetString("config_file")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(catalogHome)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Running without a config file is fine; flags, env vars and
		// defaults cover every option.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	config = &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	return nil
}

func IsLoaded() bool {
	return config != nil
}

func GetConfig() (*Config, error) {
	if config == nil {
		return nil, fmt.Errorf("config not loaded")
	}

	return config, nil
}

func MustGetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}

// Returns the catalog home directory path, from the first of:
// 1. The `catalog_home` flag from viper.
// 2. The `CATALOG_HOME` environment variable.
// 3. The default catalog home directory.
func getCatalogHome() (string, error) {
	catalogHome := viper.GetString("catalog_home")
	if catalogHome == "" {
		catalogHome = os.Getenv("CATALOG_HOME")
		if catalogHome == "" {
			catalogHome = DefaultCatalogHome
		}
	}

	catalogHome, err := pathutil.ExpandPath(catalogHome)
	if err != nil {
		return "", ErrCatalogHomeExpandFailed
	}

	return catalogHome, nil
}
