package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/identity"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/MKhiriev/go-dataset-sync/internal/workers"
)

// App owns the fully wired sync engine.
type App struct {
	cfg *config.StructuredConfig
	db  *store.DB

	provider *identity.SessionProvider
	binding  *identity.Binding
	manager  service.SyncManager
	syncJob  workers.SyncJob

	logger *logger.Logger
}

// NewApp assembles the engine from cfg. refreshFn obtains (identity id,
// session token) pairs from the credentials backend; it may be nil for a
// purely offline engine, which then operates under the unknown identity.
func NewApp(cfg *config.StructuredConfig, refreshFn identity.RefreshFunc, log *logger.Logger) (*App, error) {
	db, err := store.NewConnectSQLite(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect local database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	localStorage := store.NewSQLiteLocalStorage(db, log)

	provider := identity.NewSessionProvider(refreshFn, log)
	binding := identity.NewBinding(provider, log)

	remoteStorage, err := adapter.NewHTTPRemoteStorage(cfg.Remote, cfg.App.IdentityPoolID, binding, log)
	if err != nil {
		return nil, fmt.Errorf("create remote storage: %w", err)
	}

	return &App{
		cfg:      cfg,
		db:       db,
		provider: provider,
		binding:  binding,
		manager:  service.NewSyncManager(localStorage, remoteStorage, binding, log),
		syncJob:  workers.NewDatasetSyncJob(log),
		logger:   log,
	}, nil
}

// Manager returns the engine's sync manager.
func (a *App) Manager() service.SyncManager {
	return a.manager
}

// SyncJob returns the background sync job owned by the app.
func (a *App) SyncJob() workers.SyncJob {
	return a.syncJob
}

// Config returns the merged configuration the app was built from.
func (a *App) Config() *config.StructuredConfig {
	return a.cfg
}

// Close stops the background job and closes the local database.
func (a *App) Close() error {
	a.syncJob.Stop()
	return a.db.Close()
}
