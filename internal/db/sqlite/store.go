package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/udisondev/statpool/internal/db/sqlite/migrations"
	"github.com/udisondev/statpool/internal/stat"
)

// Store provides SQLite-backed persistence for pool snapshots.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) a SQLite store at path and applies
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}

	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// DB returns the underlying sql.DB instance.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

func (s *Store) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return goose.UpContext(ctx, s.sqlDB, ".")
}

// Save upserts the snapshot of a pool.
func (s *Store) Save(ctx context.Context, owner, name string, snap stat.Snapshot) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO stat_pools (owner_id, name, min_value, max_value, current_value, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, name) DO UPDATE SET
			min_value     = excluded.min_value,
			max_value     = excluded.max_value,
			current_value = excluded.current_value,
			updated_at    = excluded.updated_at
	`, owner, name, snap.Min, snap.Max, snap.Value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("saving pool %s/%s: %w", owner, name, err)
	}

	slog.Debug("pool saved", "owner", owner, "name", name, "value", snap.Value, "max", snap.Max)
	return nil
}

// Load returns the stored snapshot, or false when nothing is stored.
func (s *Store) Load(ctx context.Context, owner, name string) (stat.Snapshot, bool, error) {
	var snap stat.Snapshot
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT min_value, max_value, current_value
		FROM stat_pools
		WHERE owner_id = ? AND name = ?
	`, owner, name).Scan(&snap.Min, &snap.Max, &snap.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return stat.Snapshot{}, false, nil
		}
		return stat.Snapshot{}, false, fmt.Errorf("loading pool %s/%s: %w", owner, name, err)
	}
	return snap, true, nil
}

// LoadOwner returns every pool of owner keyed by name.
func (s *Store) LoadOwner(ctx context.Context, owner string) (map[string]stat.Snapshot, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT name, min_value, max_value, current_value
		FROM stat_pools
		WHERE owner_id = ?
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying pools of %s: %w", owner, err)
	}
	defer rows.Close()

	pools := make(map[string]stat.Snapshot)
	for rows.Next() {
		var name string
		var snap stat.Snapshot
		if err := rows.Scan(&name, &snap.Min, &snap.Max, &snap.Value); err != nil {
			return nil, fmt.Errorf("scanning pool of %s: %w", owner, err)
		}
		pools[name] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pools of %s: %w", owner, err)
	}
	return pools, nil
}

// Delete removes a stored pool. Deleting a missing pool is not an error.
func (s *Store) Delete(ctx context.Context, owner, name string) error {
	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM stat_pools WHERE owner_id = ? AND name = ?`, owner, name)
	if err != nil {
		return fmt.Errorf("deleting pool %s/%s: %w", owner, name, err)
	}
	return nil
}
