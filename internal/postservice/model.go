package postservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicateSlug      = errors.New("duplicate slug")
	ErrCategoryForeignKey = errors.New("category_id does not exist")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// UniqueViolation is a helper function to check if the error is a unique constraint error.
func UniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// ForeignKeyViolation is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *PostModel) slugTaken(ctx context.Context, slug string, excludeID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM posts
			WHERE slug = $1 AND id <> $2)`

	var exists bool
	err := m.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists)
	return exists, err
}

// insert creates the post row and replaces its tag and category associations
// inside one transaction, so a post is never visible with a partial tag set.
func (m *PostModel) insert(ctx context.Context, post *Post, tags, categories []string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO posts (title, slug, content, excerpt, status, published_at, category_id, comments_enabled, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	var publishedAt *time.Time
	if post.Status == StatusPublished {
		now := time.Now()
		publishedAt = &now
	}

	args := []any{
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.Status,
		publishedAt,
		post.CategoryID,
		post.CommentsEnabled,
		post.AuthorID,
	}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case UniqueViolation(err, "posts_slug_key"):
			return ErrDuplicateSlug
		case ForeignKeyViolation(err, "posts_category_id_fkey"):
			return ErrCategoryForeignKey
		default:
			return err
		}
	}
	post.PublishedAt = publishedAt

	if err := m.replaceTags(tx, ctx, post.ID, tags); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("could not update tag associations: %w", err)
	}

	if err := m.replaceCategories(tx, ctx, post.ID, categories); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("could not update category associations: %w", err)
	}

	return tx.Commit()
}

// update is a full replace of the mutable fields plus the association set. The
// stored slug is kept as-is; republishing keeps the original published_at.
func (m *PostModel) update(ctx context.Context, post *Post, tags, categories []string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		UPDATE posts
		SET title = $1, slug = $2, content = $3, excerpt = $4, status = $5,
			published_at = CASE WHEN $5 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
			category_id = $6, comments_enabled = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING published_at, created_at, updated_at`

	args := []any{
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.Status,
		post.CategoryID,
		post.CommentsEnabled,
		post.ID,
	}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&post.PublishedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		case UniqueViolation(err, "posts_slug_key"):
			return ErrDuplicateSlug
		case ForeignKeyViolation(err, "posts_category_id_fkey"):
			return ErrCategoryForeignKey
		default:
			return err
		}
	}

	if err := m.replaceTags(tx, ctx, post.ID, tags); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("could not update tag associations: %w", err)
	}

	if err := m.replaceCategories(tx, ctx, post.ID, categories); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("could not update category associations: %w", err)
	}

	return tx.Commit()
}

// getByID returns any post regardless of status, joined with its category and
// the aggregated tag names. Used by the admin screens.
func (m *PostModel) getByID(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.status, p.published_at,
			p.category_id, c.name, c.slug, p.comments_enabled, p.author_id, p.created_at, p.updated_at,
			COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.id IS NOT NULL), '{}')
		FROM posts p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN post_tags pt ON p.id = pt.post_id
		LEFT JOIN tags t ON pt.tag_id = t.id
		WHERE p.id = $1
		GROUP BY p.id, c.id`

	var post Post
	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.Status,
		&post.PublishedAt,
		&post.CategoryID,
		&post.CategoryName,
		&post.CategorySlug,
		&post.CommentsEnabled,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		pq.Array(&post.Tags),
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &post, nil
}

// getBySlug returns a published post only; drafts are not reachable from the
// public site.
func (m *PostModel) getBySlug(ctx context.Context, slug string) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.status, p.published_at,
			p.category_id, c.name, c.slug, p.comments_enabled, p.author_id, p.created_at, p.updated_at,
			COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.id IS NOT NULL), '{}')
		FROM posts p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN post_tags pt ON p.id = pt.post_id
		LEFT JOIN tags t ON pt.tag_id = t.id
		WHERE p.slug = $1 AND p.status = 'published'
		GROUP BY p.id, c.id`

	var post Post
	err := m.db.QueryRowContext(ctx, query, slug).Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.Status,
		&post.PublishedAt,
		&post.CategoryID,
		&post.CategoryName,
		&post.CategorySlug,
		&post.CommentsEnabled,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		pq.Array(&post.Tags),
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &post, nil
}

// listAdmin returns every post ordered by last update, the way the back-office
// table shows them.
func (m *PostModel) listAdmin(ctx context.Context, limit, offset int) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.slug, p.excerpt, p.status, p.published_at,
			p.category_id, c.name, c.slug, p.comments_enabled, p.author_id, p.created_at, p.updated_at,
			COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.id IS NOT NULL), '{}')
		FROM posts p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN post_tags pt ON p.id = pt.post_id
		LEFT JOIN tags t ON pt.tag_id = t.id
		GROUP BY p.id, c.id
		ORDER BY p.updated_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Slug,
			&post.Excerpt,
			&post.Status,
			&post.PublishedAt,
			&post.CategoryID,
			&post.CategoryName,
			&post.CategorySlug,
			&post.CommentsEnabled,
			&post.AuthorID,
			&post.CreatedAt,
			&post.UpdatedAt,
			pq.Array(&post.Tags),
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// listPublished drives the public site: published posts only, newest first,
// with optional category, tag and title filters.
func (m *PostModel) listPublished(ctx context.Context, filters ListFilters, limit, offset int) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.slug, p.excerpt, p.status, p.published_at,
			p.category_id, c.name, c.slug, p.comments_enabled, p.author_id, p.created_at, p.updated_at,
			COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.id IS NOT NULL), '{}')
		FROM posts p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN post_tags pt ON p.id = pt.post_id
		LEFT JOIN tags t ON pt.tag_id = t.id
		WHERE p.status = 'published'
			AND ($1 = '' OR c.slug = $1)
			AND ($2 = '' OR EXISTS (
				SELECT 1 FROM post_tags pt2
				JOIN tags t2 ON pt2.tag_id = t2.id
				WHERE pt2.post_id = p.id AND t2.slug = $2))
			AND ($3 = '' OR p.title ILIKE '%' || $3 || '%')
		GROUP BY p.id, c.id
		ORDER BY p.published_at DESC
		LIMIT $4 OFFSET $5`

	rows, err := m.db.QueryContext(ctx, query, filters.CategorySlug, filters.TagSlug, filters.Search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Slug,
			&post.Excerpt,
			&post.Status,
			&post.PublishedAt,
			&post.CategoryID,
			&post.CategoryName,
			&post.CategorySlug,
			&post.CommentsEnabled,
			&post.AuthorID,
			&post.CreatedAt,
			&post.UpdatedAt,
			pq.Array(&post.Tags),
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// delete removes the join rows and the post in one transaction. The foreign
// keys cascade anyway; the explicit deletes keep the behavior visible.
func (m *PostModel) delete(ctx context.Context, id int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
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

func (m *PostModel) setCommentsEnabled(ctx context.Context, id int, enabled bool) error {
	query := `
		UPDATE posts
		SET comments_enabled = $1, updated_at = NOW()
		WHERE id = $2`

	res, err := m.db.ExecContext(ctx, query, enabled, id)
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
