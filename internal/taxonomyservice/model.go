package taxonomyservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrDuplicateSlug  = errors.New("duplicate slug")
)

func newTaxonomyModel(db *sql.DB) *TaxonomyModel {
	return &TaxonomyModel{db: db}
}

func constraintViolation(err error, code pq.ErrorCode, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code && pqErr.Constraint == name
	}

	return false
}

func (m *TaxonomyModel) categorySlugTaken(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, excludeID).Scan(&exists)
	return exists, err
}

func (m *TaxonomyModel) tagSlugTaken(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tags WHERE slug = $1 AND id <> $2)`, slug, excludeID).Scan(&exists)
	return exists, err
}

func (m *TaxonomyModel) insertCategory(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case constraintViolation(err, "23505", "categories_name_key"):
			return ErrDuplicateName
		case constraintViolation(err, "23505", "categories_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

// listCategories includes how many posts reference each category, the count the
// admin table shows next to the name.
func (m *TaxonomyModel) listCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, COUNT(p.id), c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN posts p ON c.id = p.category_id
		GROUP BY c.id
		ORDER BY c.name ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.PostCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (m *TaxonomyModel) getCategoryByID(ctx context.Context, id int) (*Category, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories
		WHERE id = $1`

	var c Category
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

func (m *TaxonomyModel) updateCategory(ctx context.Context, c *Category) error {
	query := `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		case constraintViolation(err, "23505", "categories_name_key"):
			return ErrDuplicateName
		case constraintViolation(err, "23505", "categories_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

// deleteCategory never blocks on referencing posts: posts.category_id is nulled
// by its foreign key, and the legacy join rows are cleared explicitly. All
// inside one transaction.
func (m *TaxonomyModel) deleteCategory(ctx context.Context, id int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE category_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if rows != 1 {
		_ = tx.Rollback()
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return tx.Commit()
}

func (m *TaxonomyModel) insertTag(ctx context.Context, t *Tag) error {
	query := `
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, t.Name, t.Slug).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		switch {
		case constraintViolation(err, "23505", "tags_name_key"):
			return ErrDuplicateName
		case constraintViolation(err, "23505", "tags_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

func (m *TaxonomyModel) listTags(ctx context.Context) ([]Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, COUNT(pt.post_id), t.created_at, t.updated_at
		FROM tags t
		LEFT JOIN post_tags pt ON t.id = pt.tag_id
		GROUP BY t.id
		ORDER BY t.name ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.PostCount, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}

func (m *TaxonomyModel) getTagByID(ctx context.Context, id int) (*Tag, error) {
	query := `
		SELECT id, name, slug, created_at, updated_at
		FROM tags
		WHERE id = $1`

	var t Tag
	err := m.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &t, nil
}

func (m *TaxonomyModel) updateTag(ctx context.Context, t *Tag) error {
	query := `
		UPDATE tags
		SET name = $1, slug = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, t.Name, t.Slug, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		case constraintViolation(err, "23505", "tags_name_key"):
			return ErrDuplicateName
		case constraintViolation(err, "23505", "tags_slug_key"):
			return ErrDuplicateSlug
		default:
			return err
		}
	}

	return nil
}

// deleteTag removes the join rows and the tag; referencing posts are untouched.
func (m *TaxonomyModel) deleteTag(ctx context.Context, id int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE tag_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if rows != 1 {
		_ = tx.Rollback()
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return tx.Commit()
}
