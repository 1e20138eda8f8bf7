package directoryservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateSlug  = errors.New("duplicate slug")
)

func newDirectoryModel(db *sql.DB) *DirectoryModel {
	return &DirectoryModel{db: db}
}

func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}

func (m *DirectoryModel) listingSlugTaken(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM directory_listings WHERE slug = $1 AND id <> $2)`, slug, excludeID).Scan(&exists)
	return exists, err
}

func (m *DirectoryModel) categorySlugTaken(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM directory_categories WHERE slug = $1 AND id <> $2)`, slug, excludeID).Scan(&exists)
	return exists, err
}

// marshalBlob keeps NULLs out of the jsonb columns; a nil value is stored as
// the empty JSON document its readers expect.
func marshalBlob(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (m *DirectoryModel) insertListing(ctx context.Context, l *Listing) error {
	locationJSON, err := marshalBlob(l.Location)
	if err != nil {
		return err
	}
	imagesJSON, err := marshalBlob(l.Images)
	if err != nil {
		return err
	}
	hoursJSON, err := marshalBlob(l.Hours)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO directory_listings (name, slug, description, address, city, state, postal_code,
			country, phone, email, website, category_id, location_data, images, hours, price_range, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at`

	args := []any{
		l.Name, l.Slug, l.Description, l.Address, l.City, l.State, l.PostalCode,
		l.Country, l.Phone, l.Email, l.Website, l.CategoryID, locationJSON, imagesJSON, hoursJSON,
		l.PriceRange, l.Featured,
	}

	err = m.db.QueryRowContext(ctx, query, args...).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		switch {
		case uniqueViolation(err, "directory_listings_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

func scanListing(row interface{ Scan(...any) error }, l *Listing) error {
	var locationJSON, imagesJSON, hoursJSON []byte

	err := row.Scan(
		&l.ID, &l.Name, &l.Slug, &l.Description, &l.Address, &l.City, &l.State, &l.PostalCode,
		&l.Country, &l.Phone, &l.Email, &l.Website, &l.CategoryID, &l.CategoryName, &l.CategorySlug,
		&locationJSON, &imagesJSON, &hoursJSON, &l.PriceRange, &l.Featured, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(locationJSON, &l.Location); err != nil {
		return err
	}
	if err := json.Unmarshal(imagesJSON, &l.Images); err != nil {
		return err
	}
	return json.Unmarshal(hoursJSON, &l.Hours)
}

const listingColumns = `
	d.id, d.name, d.slug, d.description, d.address, d.city, d.state, d.postal_code,
	d.country, d.phone, d.email, d.website, d.category_id, c.name, c.slug,
	d.location_data, d.images, d.hours, d.price_range, d.featured, d.created_at, d.updated_at`

func (m *DirectoryModel) getListingByID(ctx context.Context, id int) (*Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM directory_listings d
		LEFT JOIN directory_categories c ON d.category_id = c.id
		WHERE d.id = $1`

	var l Listing
	err := scanListing(m.db.QueryRowContext(ctx, query, id), &l)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &l, nil
}

func (m *DirectoryModel) getListingBySlug(ctx context.Context, slug string) (*Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM directory_listings d
		LEFT JOIN directory_categories c ON d.category_id = c.id
		WHERE d.slug = $1`

	var l Listing
	err := scanListing(m.db.QueryRowContext(ctx, query, slug), &l)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &l, nil
}

// listListings returns listings newest first, optionally narrowed to one
// directory category. Featured listings sort ahead of the rest.
func (m *DirectoryModel) listListings(ctx context.Context, categorySlug string, limit, offset int) ([]Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM directory_listings d
		LEFT JOIN directory_categories c ON d.category_id = c.id
		WHERE ($1 = '' OR c.slug = $1)
		ORDER BY d.featured DESC, d.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, categorySlug, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var l Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

func (m *DirectoryModel) updateListing(ctx context.Context, l *Listing) error {
	locationJSON, err := marshalBlob(l.Location)
	if err != nil {
		return err
	}
	imagesJSON, err := marshalBlob(l.Images)
	if err != nil {
		return err
	}
	hoursJSON, err := marshalBlob(l.Hours)
	if err != nil {
		return err
	}

	query := `
		UPDATE directory_listings
		SET name = $1, slug = $2, description = $3, address = $4, city = $5, state = $6,
			postal_code = $7, country = $8, phone = $9, email = $10, website = $11,
			category_id = $12, location_data = $13, images = $14, hours = $15,
			price_range = $16, featured = $17, updated_at = NOW()
		WHERE id = $18
		RETURNING created_at, updated_at`

	args := []any{
		l.Name, l.Slug, l.Description, l.Address, l.City, l.State, l.PostalCode,
		l.Country, l.Phone, l.Email, l.Website, l.CategoryID, locationJSON, imagesJSON, hoursJSON,
		l.PriceRange, l.Featured, l.ID,
	}

	err = m.db.QueryRowContext(ctx, query, args...).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		case uniqueViolation(err, "directory_listings_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

// deleteListing removes the listing; its reviews go with it via the cascading
// foreign key.
func (m *DirectoryModel) deleteListing(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM directory_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *DirectoryModel) insertCategory(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO directory_categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case uniqueViolation(err, "directory_categories_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

func (m *DirectoryModel) listCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM directory_categories
		ORDER BY name ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// deleteCategory nulls out referencing listings through the foreign key rather
// than blocking or cascading the listings themselves.
func (m *DirectoryModel) deleteCategory(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM directory_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func foreignKeyViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && pqErr.Constraint == name
	}

	return false
}

func (m *DirectoryModel) insertReview(ctx context.Context, r *Review) error {
	query := `
		INSERT INTO directory_reviews (listing_id, author_name, rating, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, r.ListingID, r.AuthorName, r.Rating, r.Content).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		switch {
		case foreignKeyViolation(err, "directory_reviews_listing_id_fkey"):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *DirectoryModel) listReviews(ctx context.Context, listingID int) ([]Review, error) {
	query := `
		SELECT id, listing_id, author_name, rating, content, created_at
		FROM directory_reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ListingID, &r.AuthorName, &r.Rating, &r.Content, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}

func (m *DirectoryModel) deleteReview(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM directory_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}
