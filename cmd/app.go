package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/artsyapp/artsy/internal/config"
	"github.com/artsyapp/artsy/pkg/artsycli"
	"github.com/artsyapp/artsy/pkg/credman"
	"github.com/artsyapp/artsy/pkg/credman/storage"
	"github.com/artsyapp/artsy/pkg/logger"
	"github.com/artsyapp/artsy/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

// sqliteFile is the database name used by the sqlite storage backend.
const sqliteFile = "artsy.db"

// App wires the cookie store, API client and session coordinator for a
// single command invocation.
type App struct {
	Config  *config.Config
	Log     logger.Logger
	Store   *credman.CookieStore
	Client  *artsycli.Client
	Session *session.Coordinator

	registry *prometheus.Registry
	closers  []io.Closer
}

// NewApp builds the dependency graph described by cfg.
func NewApp(cfg *config.Config) (*App, error) {
	logCfg := logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDev,
		OutputPaths: []string{"stderr"},
	}
	if cfg.Debug {
		logCfg.Level = "debug"
	}
	l, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Log: l, registry: prometheus.NewRegistry()}

	st, err := a.openStorage()
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	a.Store = credman.NewCookieStore(st, &credman.StoreOpts{Logger: l})

	a.Client, err = artsycli.NewClient(cfg.BaseURL, a.Store, &artsycli.Opts{
		Timeout:   cfg.Timeout,
		RetryMax:  cfg.RetryMax,
		RateLimit: cfg.RateLimit,
		Debug:     cfg.Debug,
		Logger:    l,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Session = session.NewCoordinator(a.Client, a.Store, &session.Opts{
		Logger:  l,
		Metrics: session.NewMetrics(a.registry),
	})
	return a, nil
}

func (a *App) openStorage() (storage.Storage, error) {
	cfg := a.Config
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemoryStorage(), nil
	case config.StorageKeyring:
		return storage.NewKeyringStorage(storage.DefaultKeyringService), nil
	case config.StorageSQLite:
		if err := os.MkdirAll(cfg.ConfigDir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		s, err := storage.OpenSQLite(filepath.Join(cfg.ConfigDir, sqliteFile))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case config.StorageFile:
		return storage.NewFileStorage(afero.NewOsFs(), cfg.ConfigDir), nil
	}
	return nil, fmt.Errorf("%w %q", config.ErrUnknownStorage, cfg.Storage)
}

// Close releases the storage backend, writes the metrics file when one is
// configured and flushes the logger.
func (a *App) Close() error {
	var errs []error
	if a.Session != nil {
		a.Session.Close()
		if path := a.Config.MetricsFile; path != "" {
			if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
				errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
			}
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	_ = a.Log.Close()
	return errors.Join(errs...)
}
