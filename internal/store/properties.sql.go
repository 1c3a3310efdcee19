// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const propertyColumns = `id, title, slug, description, price, currency, listing_type, status, visibility,
    is_featured, address, city, area, bedrooms, bathrooms, floor, year_built, latitude, longitude,
    amenities, cover_image, video_url, category_id, agent_id, position, created_at, updated_at`

func scanProperty(row rowScanner) (Property, error) {
	var i Property
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Description,
		&i.Price,
		&i.Currency,
		&i.ListingType,
		&i.Status,
		&i.Visibility,
		&i.IsFeatured,
		&i.Address,
		&i.City,
		&i.Area,
		&i.Bedrooms,
		&i.Bathrooms,
		&i.Floor,
		&i.YearBuilt,
		&i.Latitude,
		&i.Longitude,
		&i.Amenities,
		&i.CoverImage,
		&i.VideoUrl,
		&i.CategoryID,
		&i.AgentID,
		&i.Position,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// PropertyParams carries every writable property column.
type PropertyParams struct {
	Title       string
	Slug        string
	Description string
	Price       int64
	Currency    string
	ListingType string
	Status      string
	Visibility  string
	IsFeatured  bool
	Address     string
	City        string
	Area        float64
	Bedrooms    int64
	Bathrooms   int64
	Floor       sql.NullInt64
	YearBuilt   sql.NullInt64
	Latitude    sql.NullFloat64
	Longitude   sql.NullFloat64
	Amenities   string
	CoverImage  string
	VideoUrl    string
	CategoryID  sql.NullInt64
	AgentID     sql.NullInt64
	Position    int64
}

func (p PropertyParams) args() []any {
	return []any{
		p.Title, p.Slug, p.Description, p.Price, p.Currency, p.ListingType, p.Status, p.Visibility,
		p.IsFeatured, p.Address, p.City, p.Area, p.Bedrooms, p.Bathrooms, p.Floor, p.YearBuilt,
		p.Latitude, p.Longitude, p.Amenities, p.CoverImage, p.VideoUrl, p.CategoryID, p.AgentID,
		p.Position,
	}
}

// ParamsFromProperty copies the writable columns of p, ready for UpdateProperty.
func ParamsFromProperty(p Property) PropertyParams {
	return PropertyParams{
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		ListingType: p.ListingType,
		Status:      p.Status,
		Visibility:  p.Visibility,
		IsFeatured:  p.IsFeatured,
		Address:     p.Address,
		City:        p.City,
		Area:        p.Area,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Floor:       p.Floor,
		YearBuilt:   p.YearBuilt,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Amenities:   p.Amenities,
		CoverImage:  p.CoverImage,
		VideoUrl:    p.VideoUrl,
		CategoryID:  p.CategoryID,
		AgentID:     p.AgentID,
		Position:    p.Position,
	}
}

const createProperty = `INSERT INTO properties (title, slug, description, price, currency, listing_type, status, visibility,
    is_featured, address, city, area, bedrooms, bathrooms, floor, year_built, latitude, longitude,
    amenities, cover_image, video_url, category_id, agent_id, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + propertyColumns

type CreatePropertyParams struct {
	PropertyParams
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateProperty(ctx context.Context, arg CreatePropertyParams) (Property, error) {
	args := append(arg.args(), arg.CreatedAt, arg.UpdatedAt)
	return scanProperty(q.db.QueryRowContext(ctx, createProperty, args...))
}

const getPropertyByID = `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?`

func (q *Queries) GetPropertyByID(ctx context.Context, id int64) (Property, error) {
	return scanProperty(q.db.QueryRowContext(ctx, getPropertyByID, id))
}

const getPropertyBySlug = `SELECT ` + propertyColumns + ` FROM properties WHERE slug = ?`

func (q *Queries) GetPropertyBySlug(ctx context.Context, slug string) (Property, error) {
	return scanProperty(q.db.QueryRowContext(ctx, getPropertyBySlug, slug))
}

const updateProperty = `UPDATE properties
SET title = ?, slug = ?, description = ?, price = ?, currency = ?, listing_type = ?, status = ?, visibility = ?,
    is_featured = ?, address = ?, city = ?, area = ?, bedrooms = ?, bathrooms = ?, floor = ?, year_built = ?,
    latitude = ?, longitude = ?, amenities = ?, cover_image = ?, video_url = ?, category_id = ?, agent_id = ?,
    position = ?, updated_at = ?
WHERE id = ?
RETURNING ` + propertyColumns

type UpdatePropertyParams struct {
	PropertyParams
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateProperty(ctx context.Context, arg UpdatePropertyParams) (Property, error) {
	args := append(arg.args(), arg.UpdatedAt, arg.ID)
	return scanProperty(q.db.QueryRowContext(ctx, updateProperty, args...))
}

const setPropertyFeatured = `UPDATE properties SET is_featured = ?, updated_at = ? WHERE id = ?
RETURNING ` + propertyColumns

type SetPropertyFeaturedParams struct {
	IsFeatured bool
	UpdatedAt  time.Time
	ID         int64
}

func (q *Queries) SetPropertyFeatured(ctx context.Context, arg SetPropertyFeaturedParams) (Property, error) {
	return scanProperty(q.db.QueryRowContext(ctx, setPropertyFeatured, arg.IsFeatured, arg.UpdatedAt, arg.ID))
}

const deleteProperty = `DELETE FROM properties WHERE id = ?`

func (q *Queries) DeleteProperty(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteProperty, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const propertySlugExists = `SELECT COUNT(*) FROM properties WHERE slug = ?`

func (q *Queries) PropertySlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, propertySlugExists, slug).Scan(&count)
	return count, err
}

const propertySlugExistsExcluding = `SELECT COUNT(*) FROM properties WHERE slug = ? AND id != ?`

func (q *Queries) PropertySlugExistsExcluding(ctx context.Context, arg SlugExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, propertySlugExistsExcluding, arg.Slug, arg.ID).Scan(&count)
	return count, err
}

// Sort orders accepted by PropertyFilter.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortPosition  = "position"
)

var propertyOrderBy = map[string]string{
	SortNewest:    "p.created_at DESC, p.id DESC",
	SortPriceAsc:  "p.price ASC, p.id ASC",
	SortPriceDesc: "p.price DESC, p.id DESC",
	SortPosition:  "p.position ASC, p.id ASC",
}

// PropertyFilter narrows ListProperties and CountProperties.
// Zero values match everything.
type PropertyFilter struct {
	Visibility   string
	CategorySlug string
	CategoryID   int64
	AgentID      int64
	ListingType  string
	Status       string
	City         string
	MinPrice     int64
	MaxPrice     int64
	MinBedrooms  int64
	FeaturedOnly bool
	Query        string
	Sort         string
	Limit        int64
	Offset       int64
}

func (f PropertyFilter) where() (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg ...any) {
		conds = append(conds, cond)
		args = append(args, arg...)
	}

	if f.Visibility != "" {
		add("p.visibility = ?", f.Visibility)
	}
	if f.CategorySlug != "" {
		add("p.category_id = (SELECT id FROM categories WHERE slug = ?)", f.CategorySlug)
	}
	if f.CategoryID > 0 {
		add("p.category_id = ?", f.CategoryID)
	}
	if f.AgentID > 0 {
		add("p.agent_id = ?", f.AgentID)
	}
	if f.ListingType != "" {
		add("p.listing_type = ?", f.ListingType)
	}
	if f.Status != "" {
		add("p.status = ?", f.Status)
	}
	if f.City != "" {
		add("p.city = ? COLLATE NOCASE", f.City)
	}
	if f.MinPrice > 0 {
		add("p.price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		add("p.price <= ?", f.MaxPrice)
	}
	if f.MinBedrooms > 0 {
		add("p.bedrooms >= ?", f.MinBedrooms)
	}
	if f.FeaturedOnly {
		add("p.is_featured = 1")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + escapeLike(q) + "%"
		add(`(p.title LIKE ? ESCAPE '\' OR p.description LIKE ? ESCAPE '\' OR p.address LIKE ? ESCAPE '\' OR p.city LIKE ? ESCAPE '\')`,
			like, like, like, like)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ListProperties returns the properties matching f in the requested order.
func (q *Queries) ListProperties(ctx context.Context, f PropertyFilter) ([]Property, error) {
	where, args := f.where()
	orderBy, ok := propertyOrderBy[f.Sort]
	if !ok {
		orderBy = propertyOrderBy[SortNewest]
	}

	query := `SELECT ` + prefixColumns("p", propertyColumns) + ` FROM properties p` + where + ` ORDER BY ` + orderBy
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Property{}
	for rows.Next() {
		i, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// CountProperties counts the properties matching f, ignoring its paging fields.
func (q *Queries) CountProperties(ctx context.Context, f PropertyFilter) (int64, error) {
	where, args := f.where()
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties p`+where, args...).Scan(&count)
	return count, err
}

// prefixColumns qualifies a comma separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
