package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// PostgresBackend stores each key as a row of kv_entries.
type PostgresBackend struct {
	db *sqlx.DB
}

func NewPostgresBackend(db *sqlx.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.GetContext(ctx, &value, `SELECT value FROM kv_entries WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (p *PostgresBackend) PutAll(ctx context.Context, entries map[string][]byte) error {
	return WithTx(ctx, p.db, func(tx *sqlx.Tx) error {
		for _, key := range sortedKeys(entries) {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO kv_entries (key, value, updated_at)
				VALUES ($1, $2::jsonb, now())
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
			`, key, string(entries[key])); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *PostgresBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM kv_entries WHERE key IN (?)`, keys)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, p.db.Rebind(query), args...)
	return err
}

func (p *PostgresBackend) Close() error {
	return p.db.Close()
}
