// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const slideColumns = `id, title, subtitle, image_url, video_url, link_url, button_text, position, is_active, created_at, updated_at`

func scanSlide(row rowScanner) (Slide, error) {
	var i Slide
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Subtitle,
		&i.ImageUrl,
		&i.VideoUrl,
		&i.LinkUrl,
		&i.ButtonText,
		&i.Position,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) querySlides(ctx context.Context, query string, args ...any) ([]Slide, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Slide{}
	for rows.Next() {
		i, err := scanSlide(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createSlide = `INSERT INTO slides (title, subtitle, image_url, video_url, link_url, button_text, position, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + slideColumns

type CreateSlideParams struct {
	Title      string
	Subtitle   string
	ImageUrl   string
	VideoUrl   string
	LinkUrl    string
	ButtonText string
	Position   int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreateSlide(ctx context.Context, arg CreateSlideParams) (Slide, error) {
	row := q.db.QueryRowContext(ctx, createSlide,
		arg.Title,
		arg.Subtitle,
		arg.ImageUrl,
		arg.VideoUrl,
		arg.LinkUrl,
		arg.ButtonText,
		arg.Position,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSlide(row)
}

const getSlideByID = `SELECT ` + slideColumns + ` FROM slides WHERE id = ?`

func (q *Queries) GetSlideByID(ctx context.Context, id int64) (Slide, error) {
	return scanSlide(q.db.QueryRowContext(ctx, getSlideByID, id))
}

const listSlides = `SELECT ` + slideColumns + ` FROM slides ORDER BY position, id`

func (q *Queries) ListSlides(ctx context.Context) ([]Slide, error) {
	return q.querySlides(ctx, listSlides)
}

const listActiveSlides = `SELECT ` + slideColumns + ` FROM slides WHERE is_active = 1 ORDER BY position, id`

func (q *Queries) ListActiveSlides(ctx context.Context) ([]Slide, error) {
	return q.querySlides(ctx, listActiveSlides)
}

const updateSlide = `UPDATE slides
SET title = ?, subtitle = ?, image_url = ?, video_url = ?, link_url = ?, button_text = ?, position = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + slideColumns

type UpdateSlideParams struct {
	Title      string
	Subtitle   string
	ImageUrl   string
	VideoUrl   string
	LinkUrl    string
	ButtonText string
	Position   int64
	IsActive   bool
	UpdatedAt  time.Time
	ID         int64
}

func (q *Queries) UpdateSlide(ctx context.Context, arg UpdateSlideParams) (Slide, error) {
	row := q.db.QueryRowContext(ctx, updateSlide,
		arg.Title,
		arg.Subtitle,
		arg.ImageUrl,
		arg.VideoUrl,
		arg.LinkUrl,
		arg.ButtonText,
		arg.Position,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanSlide(row)
}

const deleteSlide = `DELETE FROM slides WHERE id = ?`

func (q *Queries) DeleteSlide(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteSlide, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
