package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrKeyNotFound is returned by Backend.Get for keys that were never written.
var ErrKeyNotFound = errors.New("key not found")

// Backend is the durable key-value layer under the collection store.
// PutAll must apply every entry or none of them.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutAll(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// WithTx runs fn in a serializable transaction. Failures are returned to the
// caller as-is; nothing is retried here.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func sortedKeys(entries map[string][]byte) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type Options struct {
	Driver        string
	Path          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the Backend named by opts.Driver.
func Open(opts Options) (Backend, error) {
	switch opts.Driver {
	case "", "file":
		return OpenFileBackend(opts.Path)
	case "memory":
		return NewMemoryBackend(), nil
	case "postgres":
		database, err := Connect(opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgresBackend(database), nil
	case "redis":
		return NewRedisBackend(NewRedisClient(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
