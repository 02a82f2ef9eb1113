package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx pool with an explicit connect/close lifecycle. Construction
// parses the DSN only; Connect establishes the pool. Retrying a failed
// connect is left to the process supervisor.
type DB struct {
	*pgxpool.Pool
	config *pgxpool.Config
}

func NewPostgreSQLDB(dsn string) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5

	return &DB{config: config}, nil
}

// Connect establishes the pool and verifies the connection.
func (db *DB) Connect(ctx context.Context) error {
	pool, err := pgxpool.NewWithConfig(ctx, db.config)
	if err != nil {
		return fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	db.Pool = pool
	return nil
}

// HealthCheck reports whether the database is reachable.
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database not connected")
	}
	return db.Pool.Ping(ctx)
}

// Close releases the pool. Safe to call on a never-connected DB.
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
