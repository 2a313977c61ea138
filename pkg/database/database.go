// Package database owns the process-wide PostgreSQL connection pool.
//
// The pool is built once in main and handed to repositories explicitly.
// Repositories run queries through DB(), a database/sql view that borrows
// connections from the same bounded pgxpool, so the connection cap and idle
// reclamation apply to every caller.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/itemsapi/pkg/logger"
)

// PoolConfig holds the connection settings for NewPool.
type PoolConfig struct {
	URL         string
	MaxConns    int32         // concurrent connection cap
	IdleTimeout time.Duration // idle connections older than this are closed
}

// Database wraps a pgxpool.Pool and its database/sql adapter.
type Database struct {
	pool *pgxpool.Pool
	db   *sql.DB
	log  logger.Logger
}

// NewPool creates the connection pool and verifies connectivity with a 5s deadline.
func NewPool(ctx context.Context, cfg PoolConfig, log logger.Logger) (*Database, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, &StorageError{Op: "parse config", Err: err}
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.IdleTimeout > 0 {
		pcfg.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, &StorageError{Op: "create pool", Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, &StorageError{Op: "ping", Err: err}
	}

	log.Info("database pool configured",
		"max_conns", pcfg.MaxConns,
		"idle_timeout", pcfg.MaxConnIdleTime.String(),
	)

	return &Database{
		pool: pool,
		db:   stdlib.OpenDBFromPool(pool),
		log:  log,
	}, nil
}

// Ping runs a trivial liveness query against the pool.
func (d *Database) Ping(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, "SELECT 1"); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

// DB returns the database/sql view of the pool.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "begin tx", Err: err}
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			d.log.ErrorContext(ctx, "rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "commit", Err: err}
	}
	return nil
}

// Close releases the sql.DB adapter and then the pool.
func (d *Database) Close() {
	if err := d.db.Close(); err != nil {
		d.log.Warn("closing sql adapter", "error", err)
	}
	d.pool.Close()
}

// StorageError reports a failure talking to the database. Error returns the
// cause's message unchanged; Op names the failing operation for logs.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage: %s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *StorageError for op. Nil stays nil and an existing
// StorageError is returned as is.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
