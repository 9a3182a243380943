// Package database wraps database/sql for the job board.
//
// A Session owns the connection pool and the active executor (pool or
// transaction). All statements take bound parameters; the only text spliced
// into SQL is table and column names taken from registered schemas.
package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Executor is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// Session manages the database connection and current transaction
type Session struct {
	db       *sqlx.DB
	executor Executor
	dialect  Dialect
	obs      *ObservabilityConfig
}

func NewSession(db *sql.DB, dialect Dialect, opts ...SessionOption) *Session {
	xdb := sqlx.NewDb(db, dialect.Name())
	s := &Session{
		db:       xdb,
		executor: xdb,
		dialect:  dialect,
		obs:      defaultObservabilityConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the SQL dialect of the underlying database.
func (s *Session) Dialect() Dialect { return s.dialect }

// DB exposes the pool, mainly for tests and migrations.
func (s *Session) DB() *sql.DB { return s.db.DB }

func (s *Session) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Session) Close() error {
	return s.db.Close()
}

// Exec runs a statement that returns no rows.
func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	err := s.run(ctx, "exec", query, func(ctx context.Context) error {
		var err error
		result, err = s.executor.ExecContext(ctx, query, args...)
		return err
	})
	return result, err
}

// Select scans all rows into dest, which must be a pointer to a slice.
func (s *Session) Select(ctx context.Context, dest any, query string, args ...any) error {
	return s.run(ctx, "select", query, func(ctx context.Context) error {
		return s.executor.SelectContext(ctx, dest, query, args...)
	})
}

// Get scans a single row into dest. No row yields ErrNotFound.
func (s *Session) Get(ctx context.Context, dest any, query string, args ...any) error {
	return s.run(ctx, "get", query, func(ctx context.Context) error {
		return s.executor.GetContext(ctx, dest, query, args...)
	})
}

func (s *Session) run(ctx context.Context, operation, query string, fn func(context.Context) error) error {
	ctx, span := s.startSpan(ctx, operation, query)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if errors.Is(err, sql.ErrNoRows) {
		s.recordMetrics(ctx, operation, duration, nil)
		s.logQuery(ctx, operation, query, duration, nil)
		return ErrNotFound
	}

	s.recordMetrics(ctx, operation, duration, err)
	s.logQuery(ctx, operation, query, duration, err)
	if err != nil {
		span.fail(err)
		return &QueryError{Op: operation, Query: query, Err: err}
	}
	return nil
}

// InTransaction reports whether the session is bound to a transaction.
func (s *Session) InTransaction() bool {
	_, ok := s.executor.(*sqlx.Tx)
	return ok
}

func (s *Session) begin(ctx context.Context) (*Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &QueryError{Op: "begin", Err: err}
	}
	return &Session{
		db:       s.db,
		executor: tx,
		dialect:  s.dialect,
		obs:      s.obs,
	}, nil
}

// Transaction executes fn within a transaction. Nested calls reuse the
// outer transaction.
func (s *Session) Transaction(ctx context.Context, fn func(tx *Session) error) (err error) {
	if s.InTransaction() {
		return fn(s)
	}

	txSession, err := s.begin(ctx)
	if err != nil {
		return err
	}
	tx := txSession.executor.(*sqlx.Tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(txSession); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return &QueryError{Op: "commit", Err: err}
	}
	return nil
}
