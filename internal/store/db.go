// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New returns a Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries holds every hand-written query of the application.
type Queries struct {
	db DBTX
}

// WithTx returns a copy of q that runs its queries inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// positionedTables lists the tables whose rows carry a manual sort position.
var positionedTables = map[string]bool{
	"categories":      true,
	"agents":          true,
	"properties":      true,
	"property_images": true,
	"testimonials":    true,
	"slides":          true,
	"statistics":      true,
	"languages":       true,
}

// NextPosition returns the position that appends a new row at the end of table.
func (q *Queries) NextPosition(ctx context.Context, table string) (int64, error) {
	if !positionedTables[table] {
		return 0, fmt.Errorf("table %q has no position column", table)
	}
	var next int64
	row := q.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM "+table)
	if err := row.Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// UpdatePositionParams sets the sort position of a single row.
type UpdatePositionParams struct {
	ID       int64
	Position int64
}

// UpdatePosition sets the position of a row in table.
func (q *Queries) UpdatePosition(ctx context.Context, table string, arg UpdatePositionParams) error {
	if !positionedTables[table] {
		return fmt.Errorf("table %q has no position column", table)
	}
	res, err := q.db.ExecContext(ctx, "UPDATE "+table+" SET position = ? WHERE id = ?", arg.Position, arg.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// requireAffected reports sql.ErrNoRows when an update or delete matched nothing.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Reorder assigns positions 0..n-1 to ids in a single transaction.
func Reorder(ctx context.Context, db *sql.DB, table string, ids []int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := New(db).WithTx(tx)
	for i, id := range ids {
		if err := qtx.UpdatePosition(ctx, table, UpdatePositionParams{ID: id, Position: int64(i)}); err != nil {
			return fmt.Errorf("updating position of %s %d: %w", table, id, err)
		}
	}
	return tx.Commit()
}
