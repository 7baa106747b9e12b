package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/statpool/internal/stat"
)

// PoolRepository хранит снапшоты stat-пулов в таблице stat_pools.
// Ключ — (owner_id, name), например ("player:42", "health").
type PoolRepository struct {
	db *pgxpool.Pool
}

// NewPoolRepository создаёт новый PoolRepository.
func NewPoolRepository(db *pgxpool.Pool) *PoolRepository {
	return &PoolRepository{db: db}
}

// Save upserts the snapshot of a pool.
func (r *PoolRepository) Save(ctx context.Context, owner, name string, s stat.Snapshot) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stat_pools (owner_id, name, min_value, max_value, current_value, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (owner_id, name) DO UPDATE SET
			min_value     = EXCLUDED.min_value,
			max_value     = EXCLUDED.max_value,
			current_value = EXCLUDED.current_value,
			updated_at    = NOW()
	`, owner, name, s.Min, s.Max, s.Value)
	if err != nil {
		return fmt.Errorf("saving pool %s/%s: %w", owner, name, err)
	}

	slog.Debug("pool saved", "owner", owner, "name", name, "value", s.Value, "max", s.Max)
	return nil
}

// Load returns the stored snapshot.
// Возвращает false если пул не найден (не ошибка).
func (r *PoolRepository) Load(ctx context.Context, owner, name string) (stat.Snapshot, bool, error) {
	var s stat.Snapshot
	err := r.db.QueryRow(ctx, `
		SELECT min_value, max_value, current_value
		FROM stat_pools
		WHERE owner_id = $1 AND name = $2
	`, owner, name).Scan(&s.Min, &s.Max, &s.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stat.Snapshot{}, false, nil
		}
		return stat.Snapshot{}, false, fmt.Errorf("loading pool %s/%s: %w", owner, name, err)
	}
	return s, true, nil
}

// LoadOwner returns every pool of owner keyed by name.
func (r *PoolRepository) LoadOwner(ctx context.Context, owner string) (map[string]stat.Snapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, min_value, max_value, current_value
		FROM stat_pools
		WHERE owner_id = $1
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying pools of %s: %w", owner, err)
	}
	defer rows.Close()

	pools := make(map[string]stat.Snapshot)
	for rows.Next() {
		var name string
		var s stat.Snapshot
		if err := rows.Scan(&name, &s.Min, &s.Max, &s.Value); err != nil {
			return nil, fmt.Errorf("scanning pool of %s: %w", owner, err)
		}
		pools[name] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pools of %s: %w", owner, err)
	}
	return pools, nil
}

// Delete removes a stored pool. Deleting a missing pool is not an error.
func (r *PoolRepository) Delete(ctx context.Context, owner, name string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM stat_pools WHERE owner_id = $1 AND name = $2`, owner, name)
	if err != nil {
		return fmt.Errorf("deleting pool %s/%s: %w", owner, name, err)
	}
	return nil
}
