// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const propertyImageColumns = `id, property_id, url, alt, position, created_at`

func scanPropertyImage(row rowScanner) (PropertyImage, error) {
	var i PropertyImage
	err := row.Scan(
		&i.ID,
		&i.PropertyID,
		&i.Url,
		&i.Alt,
		&i.Position,
		&i.CreatedAt,
	)
	return i, err
}

const createPropertyImage = `INSERT INTO property_images (property_id, url, alt, position, created_at)
VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM property_images WHERE property_id = ?), ?)
RETURNING ` + propertyImageColumns

type CreatePropertyImageParams struct {
	PropertyID int64
	Url        string
	Alt        string
	CreatedAt  time.Time
}

// CreatePropertyImage appends an image to the end of a property's gallery.
func (q *Queries) CreatePropertyImage(ctx context.Context, arg CreatePropertyImageParams) (PropertyImage, error) {
	row := q.db.QueryRowContext(ctx, createPropertyImage,
		arg.PropertyID,
		arg.Url,
		arg.Alt,
		arg.PropertyID,
		arg.CreatedAt,
	)
	return scanPropertyImage(row)
}

const getPropertyImage = `SELECT ` + propertyImageColumns + ` FROM property_images WHERE id = ?`

func (q *Queries) GetPropertyImage(ctx context.Context, id int64) (PropertyImage, error) {
	return scanPropertyImage(q.db.QueryRowContext(ctx, getPropertyImage, id))
}

const listPropertyImages = `SELECT ` + propertyImageColumns + ` FROM property_images WHERE property_id = ? ORDER BY position, id`

func (q *Queries) ListPropertyImages(ctx context.Context, propertyID int64) ([]PropertyImage, error) {
	rows, err := q.db.QueryContext(ctx, listPropertyImages, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PropertyImage{}
	for rows.Next() {
		i, err := scanPropertyImage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deletePropertyImage = `DELETE FROM property_images WHERE id = ? AND property_id = ?`

type DeletePropertyImageParams struct {
	ID         int64
	PropertyID int64
}

func (q *Queries) DeletePropertyImage(ctx context.Context, arg DeletePropertyImageParams) error {
	res, err := q.db.ExecContext(ctx, deletePropertyImage, arg.ID, arg.PropertyID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
