package db

import (
	"fmt"

	"github.com/comfy-catalog/catalog-server/internal/config"
	"github.com/comfy-catalog/catalog-server/internal/db/drivers"

	"github.com/uptrace/bun/extra/bundebug"
)

func NewConnection(cfg *config.Config) (drivers.Driver, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("db config is not set")
	}

	if cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("invalid database driver: %s", cfg.DB.Driver)
	}

	driver, err := drivers.NewSQLiteDriver(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.Environment == "dev" {
		driver.GetDB().AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	return driver, nil
}
