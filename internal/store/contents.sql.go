// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contentColumns = `id, title, slug, excerpt, body, body_html, cover_image, status, published_at, author_id, created_at, updated_at`

func scanContent(row rowScanner) (Content, error) {
	var i Content
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Excerpt,
		&i.Body,
		&i.BodyHtml,
		&i.CoverImage,
		&i.Status,
		&i.PublishedAt,
		&i.AuthorID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryContents(ctx context.Context, query string, args ...any) ([]Content, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Content{}
	for rows.Next() {
		i, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createContent = `INSERT INTO contents (title, slug, excerpt, body, body_html, cover_image, status, published_at, author_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + contentColumns

type CreateContentParams struct {
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	BodyHtml    string
	CoverImage  string
	Status      string
	PublishedAt sql.NullTime
	AuthorID    sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateContent(ctx context.Context, arg CreateContentParams) (Content, error) {
	row := q.db.QueryRowContext(ctx, createContent,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Body,
		arg.BodyHtml,
		arg.CoverImage,
		arg.Status,
		arg.PublishedAt,
		arg.AuthorID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanContent(row)
}

const getContentByID = `SELECT ` + contentColumns + ` FROM contents WHERE id = ?`

func (q *Queries) GetContentByID(ctx context.Context, id int64) (Content, error) {
	return scanContent(q.db.QueryRowContext(ctx, getContentByID, id))
}

const getPublishedContentBySlug = `SELECT ` + contentColumns + ` FROM contents WHERE slug = ? AND status = 'published'`

func (q *Queries) GetPublishedContentBySlug(ctx context.Context, slug string) (Content, error) {
	return scanContent(q.db.QueryRowContext(ctx, getPublishedContentBySlug, slug))
}

const listContents = `SELECT ` + contentColumns + ` FROM contents ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

type ListContentsParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListContents(ctx context.Context, arg ListContentsParams) ([]Content, error) {
	return q.queryContents(ctx, listContents, arg.Limit, arg.Offset)
}

const listPublishedContents = `SELECT ` + contentColumns + ` FROM contents
WHERE status = 'published'
ORDER BY published_at DESC, id DESC LIMIT ? OFFSET ?`

func (q *Queries) ListPublishedContents(ctx context.Context, arg ListContentsParams) ([]Content, error) {
	return q.queryContents(ctx, listPublishedContents, arg.Limit, arg.Offset)
}

const countContents = `SELECT COUNT(*) FROM contents`

func (q *Queries) CountContents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countContents).Scan(&count)
	return count, err
}

const countPublishedContents = `SELECT COUNT(*) FROM contents WHERE status = 'published'`

func (q *Queries) CountPublishedContents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPublishedContents).Scan(&count)
	return count, err
}

const contentSlugExists = `SELECT COUNT(*) FROM contents WHERE slug = ?`

func (q *Queries) ContentSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, contentSlugExists, slug).Scan(&count)
	return count, err
}

const contentSlugExistsExcluding = `SELECT COUNT(*) FROM contents WHERE slug = ? AND id != ?`

func (q *Queries) ContentSlugExistsExcluding(ctx context.Context, arg SlugExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, contentSlugExistsExcluding, arg.Slug, arg.ID).Scan(&count)
	return count, err
}

const updateContent = `UPDATE contents
SET title = ?, slug = ?, excerpt = ?, body = ?, body_html = ?, cover_image = ?, status = ?, published_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + contentColumns

type UpdateContentParams struct {
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	BodyHtml    string
	CoverImage  string
	Status      string
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateContent(ctx context.Context, arg UpdateContentParams) (Content, error) {
	row := q.db.QueryRowContext(ctx, updateContent,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Body,
		arg.BodyHtml,
		arg.CoverImage,
		arg.Status,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanContent(row)
}

const deleteContent = `DELETE FROM contents WHERE id = ?`

func (q *Queries) DeleteContent(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteContent, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
