// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const statisticColumns = `id, label, value, suffix, icon, position, created_at, updated_at`

func scanStatistic(row rowScanner) (Statistic, error) {
	var i Statistic
	err := row.Scan(
		&i.ID,
		&i.Label,
		&i.Value,
		&i.Suffix,
		&i.Icon,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createStatistic = `INSERT INTO statistics (label, value, suffix, icon, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + statisticColumns

type CreateStatisticParams struct {
	Label     string
	Value     int64
	Suffix    string
	Icon      string
	Position  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateStatistic(ctx context.Context, arg CreateStatisticParams) (Statistic, error) {
	row := q.db.QueryRowContext(ctx, createStatistic,
		arg.Label,
		arg.Value,
		arg.Suffix,
		arg.Icon,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanStatistic(row)
}

const getStatisticByID = `SELECT ` + statisticColumns + ` FROM statistics WHERE id = ?`

func (q *Queries) GetStatisticByID(ctx context.Context, id int64) (Statistic, error) {
	return scanStatistic(q.db.QueryRowContext(ctx, getStatisticByID, id))
}

const listStatistics = `SELECT ` + statisticColumns + ` FROM statistics ORDER BY position, id`

func (q *Queries) ListStatistics(ctx context.Context) ([]Statistic, error) {
	rows, err := q.db.QueryContext(ctx, listStatistics)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Statistic{}
	for rows.Next() {
		i, err := scanStatistic(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateStatistic = `UPDATE statistics
SET label = ?, value = ?, suffix = ?, icon = ?, position = ?, updated_at = ?
WHERE id = ?
RETURNING ` + statisticColumns

type UpdateStatisticParams struct {
	Label     string
	Value     int64
	Suffix    string
	Icon      string
	Position  int64
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateStatistic(ctx context.Context, arg UpdateStatisticParams) (Statistic, error) {
	row := q.db.QueryRowContext(ctx, updateStatistic,
		arg.Label,
		arg.Value,
		arg.Suffix,
		arg.Icon,
		arg.Position,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanStatistic(row)
}

const deleteStatistic = `DELETE FROM statistics WHERE id = ?`

func (q *Queries) DeleteStatistic(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteStatistic, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
