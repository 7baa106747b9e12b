package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/statpool/internal/config"
	"github.com/udisondev/statpool/internal/db"
	"github.com/udisondev/statpool/internal/db/sqlite"
	"github.com/udisondev/statpool/internal/stat"
)

// poolStore is implemented by db.PoolRepository and sqlite.Store.
type poolStore interface {
	Save(ctx context.Context, owner, name string, s stat.Snapshot) error
	Load(ctx context.Context, owner, name string) (stat.Snapshot, bool, error)
	LoadOwner(ctx context.Context, owner string) (map[string]stat.Snapshot, error)
	Delete(ctx context.Context, owner, name string) error
}

// openStore opens the configured store. The returned func releases it.
func openStore(ctx context.Context, cfg config.StoreConfig) (poolStore, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("database connected", "host", cfg.Database.Host, "db", cfg.Database.DBName)
		return db.NewPoolRepository(database.Pool()), database.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("sqlite store opened", "path", cfg.Path)
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Error("closing sqlite store", "err", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// restorer builds pools from stored state, falling back to config.
// Stored pools are loaded once per owner.
type restorer struct {
	store  poolStore
	owners map[string]map[string]stat.Snapshot
}

func newRestorer(store poolStore) *restorer {
	return &restorer{
		store:  store,
		owners: make(map[string]map[string]stat.Snapshot),
	}
}

// restore returns the pool for entry and whether it came from the store.
func (r *restorer) restore(ctx context.Context, entry config.PoolEntry) (*stat.Pool, bool, error) {
	stored, ok := r.owners[entry.Owner]
	if !ok {
		var err error
		stored, err = r.store.LoadOwner(ctx, entry.Owner)
		if err != nil {
			return nil, false, fmt.Errorf("loading pools of %s: %w", entry.Owner, err)
		}
		r.owners[entry.Owner] = stored
	}

	if snap, found := stored[entry.Name]; found {
		return stat.FromSnapshot(snap), true, nil
	}
	return stat.FromSnapshot(entry.Snapshot), false, nil
}
