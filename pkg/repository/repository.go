// Package repository provides database/sql helpers shared by the PostgreSQL
// stores: transaction scoping, typed row scanning, and driver error mapping.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DB is implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner abstracts *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc converts a Scanner into a typed value.
type ScanFunc[T any] func(Scanner) (T, error)

// InTx runs fn inside a transaction started with opts. The transaction
// commits when fn returns nil and rolls back otherwise.
func InTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// QueryOne scans the single row returned by query. A missing row surfaces as
// sql.ErrNoRows for MapError to translate.
func QueryOne[T any](ctx context.Context, db DB, query string, args []any, scan ScanFunc[T]) (T, error) {
	return scan(db.QueryRowContext(ctx, query, args...))
}

// QueryMany scans every row returned by query. No rows yields an empty,
// non-nil slice.
func QueryMany[T any](ctx context.Context, db DB, query string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// ExecAffected runs a statement and reports how many rows it changed.
func ExecAffected(ctx context.Context, db DB, query string, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
