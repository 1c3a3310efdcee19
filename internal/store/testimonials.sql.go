// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const testimonialColumns = `id, author_name, author_title, content, rating, photo_url, is_published, position, created_at, updated_at`

func scanTestimonial(row rowScanner) (Testimonial, error) {
	var i Testimonial
	err := row.Scan(
		&i.ID,
		&i.AuthorName,
		&i.AuthorTitle,
		&i.Content,
		&i.Rating,
		&i.PhotoUrl,
		&i.IsPublished,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryTestimonials(ctx context.Context, query string, args ...any) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Testimonial{}
	for rows.Next() {
		i, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createTestimonial = `INSERT INTO testimonials (author_name, author_title, content, rating, photo_url, is_published, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + testimonialColumns

type CreateTestimonialParams struct {
	AuthorName  string
	AuthorTitle string
	Content     string
	Rating      int64
	PhotoUrl    string
	IsPublished bool
	Position    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, createTestimonial,
		arg.AuthorName,
		arg.AuthorTitle,
		arg.Content,
		arg.Rating,
		arg.PhotoUrl,
		arg.IsPublished,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanTestimonial(row)
}

const getTestimonialByID = `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = ?`

func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (Testimonial, error) {
	return scanTestimonial(q.db.QueryRowContext(ctx, getTestimonialByID, id))
}

const listTestimonials = `SELECT ` + testimonialColumns + ` FROM testimonials ORDER BY position, id`

func (q *Queries) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	return q.queryTestimonials(ctx, listTestimonials)
}

const listPublishedTestimonials = `SELECT ` + testimonialColumns + ` FROM testimonials WHERE is_published = 1 ORDER BY position, id`

func (q *Queries) ListPublishedTestimonials(ctx context.Context) ([]Testimonial, error) {
	return q.queryTestimonials(ctx, listPublishedTestimonials)
}

const updateTestimonial = `UPDATE testimonials
SET author_name = ?, author_title = ?, content = ?, rating = ?, photo_url = ?, is_published = ?, position = ?, updated_at = ?
WHERE id = ?
RETURNING ` + testimonialColumns

type UpdateTestimonialParams struct {
	AuthorName  string
	AuthorTitle string
	Content     string
	Rating      int64
	PhotoUrl    string
	IsPublished bool
	Position    int64
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, updateTestimonial,
		arg.AuthorName,
		arg.AuthorTitle,
		arg.Content,
		arg.Rating,
		arg.PhotoUrl,
		arg.IsPublished,
		arg.Position,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanTestimonial(row)
}

const deleteTestimonial = `DELETE FROM testimonials WHERE id = ?`

func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteTestimonial, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
