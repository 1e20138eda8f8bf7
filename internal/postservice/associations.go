package postservice

import (
	"context"
	"database/sql"
	"strings"

	"github.com/waratahblog/waratah/internal/common"
)

// replaceTags makes post_tags reflect exactly the submitted name set: all
// existing join rows for the post are removed, then each name is resolved to a
// tag id (creating the tag row on first sight) and re-linked. Full replace, not
// a diff; an empty set removes every association. Blank entries are dropped and
// duplicates are tolerated through the conflict clause on the join insert. Runs
// inside the caller's transaction, so any failure rolls the whole post write
// back.
func (m *PostModel) replaceTags(tx *sql.Tx, ctx context.Context, postID int, names []string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID)
	if err != nil {
		return err
	}

	upsert := `
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	link := `
		INSERT INTO post_tags (post_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tagID int
		if err := tx.QueryRowContext(ctx, upsert, name, common.Slugify(name)).Scan(&tagID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, link, postID, tagID); err != nil {
			return err
		}
	}

	return nil
}

// replaceCategories is the same routine against the legacy multi-category join.
// The canonical category link is posts.category_id; the join table is kept in
// sync for the older public endpoints that still read it.
func (m *PostModel) replaceCategories(tx *sql.Tx, ctx context.Context, postID int, names []string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID)
	if err != nil {
		return err
	}

	upsert := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	link := `
		INSERT INTO post_categories (post_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var categoryID int
		if err := tx.QueryRowContext(ctx, upsert, name, common.Slugify(name)).Scan(&categoryID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, link, postID, categoryID); err != nil {
			return err
		}
	}

	return nil
}

// tagNames returns the current tag set of a post, used by tests and the admin
// detail view fallback.
func (m *PostModel) tagNames(ctx context.Context, postID int) ([]string, error) {
	query := `
		SELECT t.name
		FROM tags t
		JOIN post_tags pt ON t.id = pt.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.name`

	rows, err := m.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
