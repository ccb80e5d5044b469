package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const snapshotSchema = `
create table if not exists cache_entries (
	key text primary key,
	value blob not null,
	-- unix milliseconds, 0 never expires
	expires_at integer not null
);`

// Snapshot persists a store's entries to a sqlite database so separate
// processes can share a warm cache. Values are stored as JSON.
type Snapshot[V any] struct {
	db *sql.DB
}

func NewSnapshot[V any](ctx context.Context, db *sql.DB) (Snapshot[V], error) {
	_, err := db.ExecContext(ctx, snapshotSchema)
	if err != nil {
		return Snapshot[V]{}, fmt.Errorf("create cache snapshot schema: %w", err)
	}
	return Snapshot[V]{db: db}, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Save replaces the snapshot with the store's unexpired entries.
func (s Snapshot[V]) Save(ctx context.Context, store *Store[V]) (int, error) {
	entries := store.Entries()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "delete from cache_entries")
	if err != nil {
		return 0, err
	}
	for key, entry := range entries {
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return 0, fmt.Errorf("encode %s: %w", key, err)
		}
		_, err = tx.ExecContext(
			ctx,
			"insert into cache_entries (key, value, expires_at) values (?, ?, ?)",
			key, value, toMillis(entry.ExpiresAt),
		)
		if err != nil {
			return 0, err
		}
	}

	return len(entries), tx.Commit()
}

// Load restores every unexpired snapshot entry into store.
func (s Snapshot[V]) Load(ctx context.Context, store *Store[V]) (int, error) {
	rows, err := s.db.QueryContext(ctx, "select key, value, expires_at from cache_entries")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	restored := 0
	for rows.Next() {
		var key string
		var value []byte
		var expiresAt int64
		err := rows.Scan(&key, &value, &expiresAt)
		if err != nil {
			return restored, err
		}

		var decoded V
		err = json.Unmarshal(value, &decoded)
		if err != nil {
			return restored, fmt.Errorf("decode %s: %w", key, err)
		}
		if store.Restore(key, Entry[V]{Value: decoded, ExpiresAt: fromMillis(expiresAt)}) {
			restored++
		}
	}
	return restored, rows.Err()
}

// Clear deletes snapshot rows whose key starts with prefix.
func (s Snapshot[V]) Clear(ctx context.Context, prefix string) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		"delete from cache_entries where substr(key, 1, length(?)) = ?",
		prefix, prefix,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type SnapshotStats struct {
	Entries int
	Expired int
	Bytes   int64
}

func (s Snapshot[V]) Stats(ctx context.Context, now time.Time) (SnapshotStats, error) {
	var stats SnapshotStats
	err := s.db.QueryRowContext(
		ctx,
		`select
			count(*),
			coalesce(sum(case when expires_at != 0 and expires_at <= ? then 1 else 0 end), 0),
			coalesce(sum(length(value)), 0)
		from cache_entries`,
		now.UnixMilli(),
	).Scan(&stats.Entries, &stats.Expired, &stats.Bytes)
	return stats, err
}
