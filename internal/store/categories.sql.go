// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const categoryColumns = `id, name, slug, description, icon, position, created_at, updated_at`

func scanCategory(row rowScanner) (Category, error) {
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.Icon,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createCategory = `INSERT INTO categories (name, slug, description, icon, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + categoryColumns

type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	Position    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.Icon,
		arg.Position,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanCategory(row)
}

const getCategoryByID = `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategoryByID, id))
}

const getCategoryBySlug = `SELECT ` + categoryColumns + ` FROM categories WHERE slug = ?`

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategoryBySlug, slug))
}

const listCategoriesWithCounts = `SELECT c.id, c.name, c.slug, c.description, c.icon, c.position, c.created_at, c.updated_at,
    (SELECT COUNT(*) FROM properties p WHERE p.category_id = c.id AND (? OR p.visibility = 'public')) AS property_count
FROM categories c
ORDER BY c.position, c.name`

// ListCategoriesWithCounts returns every category with its property count.
// Private properties are counted only when includePrivate is set.
func (q *Queries) ListCategoriesWithCounts(ctx context.Context, includePrivate bool) ([]CategoryWithCount, error) {
	rows, err := q.db.QueryContext(ctx, listCategoriesWithCounts, includePrivate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CategoryWithCount{}
	for rows.Next() {
		var i CategoryWithCount
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Slug,
			&i.Description,
			&i.Icon,
			&i.Position,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.PropertyCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countCategories = `SELECT COUNT(*) FROM categories`

func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCategories).Scan(&count)
	return count, err
}

const categorySlugExists = `SELECT COUNT(*) FROM categories WHERE slug = ?`

func (q *Queries) CategorySlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, categorySlugExists, slug).Scan(&count)
	return count, err
}

const categorySlugExistsExcluding = `SELECT COUNT(*) FROM categories WHERE slug = ? AND id != ?`

type SlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

func (q *Queries) CategorySlugExistsExcluding(ctx context.Context, arg SlugExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, categorySlugExistsExcluding, arg.Slug, arg.ID).Scan(&count)
	return count, err
}

const updateCategory = `UPDATE categories
SET name = ?, slug = ?, description = ?, icon = ?, position = ?, updated_at = ?
WHERE id = ?
RETURNING ` + categoryColumns

type UpdateCategoryParams struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	Position    int64
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, updateCategory,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.Icon,
		arg.Position,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanCategory(row)
}

const deleteCategory = `DELETE FROM categories WHERE id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteCategory, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
