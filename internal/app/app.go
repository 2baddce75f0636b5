package app

import (
	"context"
	"fmt"
	"time"

	"github.com/comfy-catalog/catalog-server/internal/config"
	"github.com/comfy-catalog/catalog-server/internal/db"
	dbmodels "github.com/comfy-catalog/catalog-server/internal/db/models"
	"github.com/comfy-catalog/catalog-server/internal/db/repository"
	"github.com/comfy-catalog/catalog-server/internal/services/exportstore"
	"github.com/comfy-catalog/catalog-server/internal/source"
	"github.com/comfy-catalog/catalog-server/internal/store"
	"github.com/comfy-catalog/catalog-server/pkg/logger"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type App struct {
	db         *bun.DB
	config     *config.Config
	ctx        context.Context
	cancelFunc context.CancelFunc
	store      *store.Store
	saver      *exportstore.Saver

	Logger            *zap.Logger
	ExportStore       exportstore.ExportStore
	CatalogRepository repository.ICatalogRepository
}

// Option funcs used to initialize the App struct
type OptionFunc func(app *App) error

func WithStore(options ...source.Option) OptionFunc {
	return func(app *App) error {
		client, err := source.NewClient(app.config, options...)
		if err != nil {
			return err
		}

		ttl := time.Duration(app.config.RefreshTTL) * time.Second
		app.store = store.NewStore(client, ttl, app.config.CacheDir, app.Logger)

		// A stale disk cache is better than an empty catalog while the
		// first fetch is in flight.
		if err := app.store.LoadCache(); err != nil {
			app.Logger.Debug("no snapshot cache to restore", zap.Error(err))
		}

		return nil
	}
}

func WithDBInitialization() OptionFunc {
	return func(app *App) error {
		driver, err := db.NewConnection(app.config)
		if err != nil {
			return err
		}
		app.db = driver.GetDB()

		// Ensure tables exist
		tables := []interface{}{
			(*dbmodels.ModelRow)(nil),
			(*dbmodels.WorkflowRow)(nil),
			(*dbmodels.SyncState)(nil),
		}
		err = app.db.RunInTx(app.ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, table := range tables {
				if _, err := tx.NewCreateTable().
					Model(table).
					IfNotExists().
					Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		app.CatalogRepository = repository.NewCatalogRepository(app.db)

		return nil
	}
}

func WithExportStore() OptionFunc {
	return func(app *App) error {
		exports, err := exportstore.NewExportStore(app.config)
		if err != nil {
			return err
		}

		app.ExportStore = exports
		app.saver = exportstore.NewSaver(exports, 10)
		return nil
	}
}

func NewApp(cfg *config.Config, options ...OptionFunc) (*App, error) {
	log, err := logger.InitLogger(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		ctx:        ctx,
		config:     cfg,
		Logger:     log,
		cancelFunc: cancel,
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			app.cancelFunc()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) Close() {
	app.cancelFunc()

	if app.saver != nil {
		app.saver.Stop()
	}
	if app.db != nil {
		app.db.Close()
	}
	app.Logger.Sync()
}

func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) Context() context.Context {
	return app.ctx
}

func (app *App) DB() *bun.DB {
	return app.db
}

func (app *App) Store() *store.Store {
	return app.store
}

func (app *App) Saver() *exportstore.Saver {
	return app.saver
}
