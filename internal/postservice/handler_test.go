package postservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/waratahblog/waratah/internal/common"
)

func setupTestEnvironment(t *testing.T) (*PostService, *sql.DB, func() error) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	cleanup := func() error {
		for _, table := range []string{"post_tags", "post_categories", "posts", "tags", "categories"} {
			if _, err := db.Exec("DELETE FROM " + table); err != nil {
				return err
			}
		}

		cache.Flush()

		return nil
	}

	return NewPostService(db, cache), db, cleanup
}

func joinedTagNames(t *testing.T, db *sql.DB, postID int) []string {
	rows, err := db.Query(`
		SELECT t.name
		FROM tags t
		JOIN post_tags pt ON t.id = pt.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.name`, postID)
	assert.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}

	return names
}

func TestCreatePost(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	ctx := context.Background()

	testCases := []struct {
		name        string
		req         *CreatePostRequest
		wantSlug    string
		wantTags    []string
		wantErr     error
		errContains string
	}{
		{
			name: "draft with generated slug",
			req: &CreatePostRequest{
				Title:   "Great Ocean Road",
				Content: "Twelve Apostles and beyond.",
			},
			wantSlug: "great-ocean-road",
		},
		{
			name: "published with tags",
			req: &CreatePostRequest{
				Title:   "Diving the Reef",
				Content: "Cairns, Port Douglas.",
				Status:  StatusPublished,
				Tags:    []string{"Reef", "Diving"},
			},
			wantSlug: "diving-the-reef",
			wantTags: []string{"Diving", "Reef"},
		},
		{
			name: "blank and duplicate tag entries filtered",
			req: &CreatePostRequest{
				Title:   "Uluru at Dawn",
				Content: "Red centre.",
				Tags:    []string{" Outback ", "", "   ", "Outback"},
			},
			wantSlug: "uluru-at-dawn",
			wantTags: []string{"Outback"},
		},
		{
			name: "missing title",
			req: &CreatePostRequest{
				Content: "No title.",
			},
			wantErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "invalid status",
			req: &CreatePostRequest{
				Title:  "Bad Status",
				Status: "archived",
			},
			wantErr: common.ValidationError{Errors: map[string]string{"status": "must be either draft or published"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Cleanup(func() {
				assert.NoError(t, cleanup())
			})

			post, err := s.CreatePost(ctx, tc.req)
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.wantSlug, post.Slug)
			assert.Equal(t, tc.wantTags, joinedTagNames(t, db, post.ID))

			if tc.req.Status == StatusPublished {
				assert.NotNil(t, post.PublishedAt)
			} else {
				assert.Nil(t, post.PublishedAt)
			}
		})
	}
}

func TestCreatePostSlugCollision(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	first, err := s.CreatePost(ctx, &CreatePostRequest{Title: "Beach Trips", Content: "a"})
	assert.NoError(t, err)
	assert.Equal(t, "beach-trips", first.Slug)

	second, err := s.CreatePost(ctx, &CreatePostRequest{Title: "beach-trips ", Content: "b"})
	assert.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Regexp(t, `^beach-trips-\d{4}$`, second.Slug)
}

// Submitting a new tag set on update must fully replace the old one: the join
// rows equal exactly the submitted set, and removed tags keep their tag row.
func TestUpdatePostReplacesTags(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	post, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:   "Reef Weekend",
		Content: "Snorkelling notes.",
		Tags:    []string{"Reef", "Diving"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Diving", "Reef"}, joinedTagNames(t, db, post.ID))

	updated, err := s.UpdatePost(ctx, &UpdatePostRequest{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Status:  StatusDraft,
		Tags:    []string{"Diving"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Diving"}, joinedTagNames(t, db, updated.ID))

	// the Reef tag row itself survives; only the join row went away
	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM tags WHERE name = 'Reef'`).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpdatePostEmptyTagSet(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	post, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:   "Tagged Post",
		Content: "c",
		Tags:    []string{"One", "Two", "Three"},
	})
	assert.NoError(t, err)

	_, err = s.UpdatePost(ctx, &UpdatePostRequest{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Status:  StatusDraft,
		Tags:    []string{},
	})
	assert.NoError(t, err)
	assert.Empty(t, joinedTagNames(t, db, post.ID))
}

// Renaming a post without supplying a slug keeps the stored slug.
func TestUpdatePostPreservesSlug(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	post, err := s.CreatePost(ctx, &CreatePostRequest{Title: "Outback", Content: "d"})
	assert.NoError(t, err)
	assert.Equal(t, "outback", post.Slug)

	updated, err := s.UpdatePost(ctx, &UpdatePostRequest{
		ID:      post.ID,
		Title:   "Outback Adventures",
		Content: post.Content,
		Status:  StatusDraft,
	})
	assert.NoError(t, err)
	assert.Equal(t, "outback", updated.Slug)
}

func TestUpdatePostKeepsPublishedAt(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	post, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:   "Published Once",
		Content: "e",
		Status:  StatusPublished,
	})
	assert.NoError(t, err)
	assert.NotNil(t, post.PublishedAt)

	updated, err := s.UpdatePost(ctx, &UpdatePostRequest{
		ID:      post.ID,
		Title:   post.Title,
		Content: "edited",
		Status:  StatusPublished,
	})
	assert.NoError(t, err)
	assert.NotNil(t, updated.PublishedAt)
	assert.WithinDuration(t, *post.PublishedAt, *updated.PublishedAt, time.Second)
}

func TestUpdatePostNotFound(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	_, err := s.UpdatePost(ctx, &UpdatePostRequest{
		ID:      99999,
		Title:   "Ghost",
		Content: "f",
		Status:  StatusDraft,
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeletePost(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	post, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:   "Doomed",
		Content: "g",
		Tags:    []string{"Ephemeral"},
	})
	assert.NoError(t, err)

	assert.NoError(t, s.DeletePost(ctx, post.ID))

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM post_tags WHERE post_id = $1`, post.ID).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = s.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.ErrorIs(t, s.DeletePost(ctx, post.ID), ErrRecordNotFound)
}

func TestGetPostBySlugPublishedOnly(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	draft, err := s.CreatePost(ctx, &CreatePostRequest{Title: "Hidden Draft", Content: "h"})
	assert.NoError(t, err)

	_, err = s.GetPostBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	published, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:   "Visible Post",
		Content: "i",
		Status:  StatusPublished,
		Tags:    []string{"Coast"},
	})
	assert.NoError(t, err)

	got, err := s.GetPostBySlug(ctx, published.Slug)
	assert.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
	assert.Equal(t, []string{"Coast"}, got.Tags)
}

func TestGetPublishedPostsFilters(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	var categoryID int
	err := db.QueryRow(`INSERT INTO categories (name, slug) VALUES ('Queensland', 'queensland') RETURNING id`).Scan(&categoryID)
	assert.NoError(t, err)

	_, err = s.CreatePost(ctx, &CreatePostRequest{
		Title:      "Cairns Diving",
		Content:    "j",
		Status:     StatusPublished,
		CategoryID: &categoryID,
		Tags:       []string{"Diving"},
	})
	assert.NoError(t, err)

	_, err = s.CreatePost(ctx, &CreatePostRequest{
		Title:   "Melbourne Coffee",
		Content: "k",
		Status:  StatusPublished,
	})
	assert.NoError(t, err)

	_, err = s.CreatePost(ctx, &CreatePostRequest{Title: "Unpublished", Content: "l"})
	assert.NoError(t, err)

	all, err := s.GetPublishedPosts(ctx, ListFilters{}, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	byCategory, err := s.GetPublishedPosts(ctx, ListFilters{CategorySlug: "queensland"}, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, byCategory, 1)
	assert.Equal(t, "Cairns Diving", byCategory[0].Title)

	byTag, err := s.GetPublishedPosts(ctx, ListFilters{TagSlug: "diving"}, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, byTag, 1)

	bySearch, err := s.GetPublishedPosts(ctx, ListFilters{Search: "coffee"}, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, bySearch, 1)
	assert.Equal(t, "Melbourne Coffee", bySearch[0].Title)
}

func TestToggleComments(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	post, err := s.CreatePost(ctx, &CreatePostRequest{Title: "Commentable", Content: "m"})
	assert.NoError(t, err)
	assert.True(t, post.CommentsEnabled)

	assert.NoError(t, s.ToggleComments(ctx, post.ID, false))

	got, err := s.GetPostByID(ctx, post.ID)
	assert.NoError(t, err)
	assert.False(t, got.CommentsEnabled)

	assert.ErrorIs(t, s.ToggleComments(ctx, 99999, true), ErrRecordNotFound)
}

func TestReplaceCategoriesLegacyJoin(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)
	ctx := context.Background()
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	post, err := s.CreatePost(ctx, &CreatePostRequest{
		Title:      "Multi Category",
		Content:    "n",
		Categories: []string{"Beaches", "Road Trips"},
	})
	assert.NoError(t, err)

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM post_categories WHERE post_id = $1`, post.ID).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = s.UpdatePost(ctx, &UpdatePostRequest{
		ID:         post.ID,
		Title:      post.Title,
		Content:    post.Content,
		Status:     StatusDraft,
		Categories: []string{"Beaches"},
	})
	assert.NoError(t, err)

	err = db.QueryRow(`SELECT COUNT(*) FROM post_categories WHERE post_id = $1`, post.ID).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
