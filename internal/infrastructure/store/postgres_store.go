package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps client state in a PostgreSQL key/value table
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the kv_store table if it does not exist
func (ps *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, createKVTable)
	return err
}

// Get retrieves the value stored under key
func (ps *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := ps.db.QueryRowContext(ctx,
		"SELECT value FROM kv_store WHERE key = $1",
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set upserts the value stored under key
func (ps *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := ps.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key,
		value,
		time.Now(),
	)
	return err
}

// Delete removes key
func (ps *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := ps.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = $1", key)
	return err
}

// ConnectPostgres opens and pings a PostgreSQL connection pool
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// A CLI session needs only a handful of connections
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
