package postservice

import (
	"context"
	"database/sql"

	"github.com/waratahblog/waratah/internal/common"
)

func NewPostService(db *sql.DB, c *common.Cache) *PostService {
	return &PostService{m: newPostModel(db), c: c}
}

type CreatePostRequest struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	Status          string   `json:"status"`
	CategoryID      *int     `json:"category_id"`
	CommentsEnabled *bool    `json:"comments_enabled"`
	Tags            []string `json:"tags"`
	Categories      []string `json:"categories"`
	AuthorID        *int     `json:"-"`
}

// CreatePost inserts the post and its tag/category associations as one atomic
// unit. The slug is generated from the title when the client did not supply
// one, with the uniqueness guard applied either way.
func (s *PostService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	if req.Status == "" {
		req.Status = StatusDraft
	}

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateStatus(v, req.Status)
	validateSlug(v, req.Slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	slug := req.Slug
	if slug == "" {
		slug = common.Slugify(req.Title)
	}
	if slug == "" {
		v.AddError("slug", "could not be derived from the title")
		return nil, v.ValidationError()
	}

	slug, err := common.UniqueSlug(ctx, slug, func(ctx context.Context, slug string) (bool, error) {
		return s.m.slugTaken(ctx, slug, 0)
	})
	if err != nil {
		return nil, err
	}

	commentsEnabled := true
	if req.CommentsEnabled != nil {
		commentsEnabled = *req.CommentsEnabled
	}

	post := &Post{
		Title:           req.Title,
		Slug:            slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		Status:          req.Status,
		CategoryID:      req.CategoryID,
		CommentsEnabled: commentsEnabled,
		AuthorID:        req.AuthorID,
	}

	if err := s.m.insert(ctx, post, req.Tags, req.Categories); err != nil {
		return nil, err
	}

	s.c.Flush()

	return s.m.getByID(ctx, post.ID)
}

type UpdatePostRequest struct {
	ID              int      `json:"-"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	Status          string   `json:"status"`
	CategoryID      *int     `json:"category_id"`
	CommentsEnabled *bool    `json:"comments_enabled"`
	Tags            []string `json:"tags"`
	Categories      []string `json:"categories"`
}

// UpdatePost is a full replace of the mutable fields and the association sets.
// The stored slug is never regenerated from the title; a client-supplied slug
// is guard-checked against every other post.
func (s *PostService) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, req.ID, "id")
	validateTitle(v, req.Title)
	validateStatus(v, req.Status)
	validateSlug(v, req.Slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	current, err := s.m.getByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	slug := current.Slug
	if req.Slug != "" && req.Slug != current.Slug {
		slug, err = common.UniqueSlug(ctx, req.Slug, func(ctx context.Context, slug string) (bool, error) {
			return s.m.slugTaken(ctx, slug, req.ID)
		})
		if err != nil {
			return nil, err
		}
	}

	commentsEnabled := current.CommentsEnabled
	if req.CommentsEnabled != nil {
		commentsEnabled = *req.CommentsEnabled
	}

	post := &Post{
		ID:              req.ID,
		Title:           req.Title,
		Slug:            slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		Status:          req.Status,
		CategoryID:      req.CategoryID,
		CommentsEnabled: commentsEnabled,
	}

	if err := s.m.update(ctx, post, req.Tags, req.Categories); err != nil {
		return nil, err
	}

	s.c.Flush()

	return s.m.getByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.delete(ctx, id); err != nil {
		return err
	}

	s.c.Flush()

	return nil
}

func (s *PostService) GetPostByID(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

// GetPostBySlug serves the public post page; only published posts resolve.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	v := common.NewValidator()
	v.Check(slug != "", "slug", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyPostBySlug(slug)); ok {
		return cached.(*Post), nil
	}

	post, err := s.m.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPostBySlug(slug), post)

	return post, nil
}

// GetAdminPosts returns every post for the back-office table. Default limit is
// 20 and default offset is 0.
func (s *PostService) GetAdminPosts(ctx context.Context, limit, offset *int) ([]Post, error) {
	l, o := normalizePage(limit, offset, 20)
	return s.m.listAdmin(ctx, l, o)
}

// GetPublishedPosts returns the public listing. Unfiltered pages are cached;
// any write to the post service flushes the cache.
func (s *PostService) GetPublishedPosts(ctx context.Context, filters ListFilters, limit, offset *int) ([]Post, error) {
	l, o := normalizePage(limit, offset, 10)

	cacheable := filters == (ListFilters{})
	if cacheable {
		if cached, ok := s.c.Get(common.CacheKeyPublishedPosts(l, o)); ok {
			return cached.([]Post), nil
		}
	}

	posts, err := s.m.listPublished(ctx, filters, l, o)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.c.Set(common.CacheKeyPublishedPosts(l, o), posts)
	}

	return posts, nil
}

// ToggleComments flips whether a post accepts comments.
func (s *PostService) ToggleComments(ctx context.Context, id int, enabled bool) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.setCommentsEnabled(ctx, id, enabled); err != nil {
		return err
	}

	s.c.Flush()

	return nil
}

func normalizePage(limit, offset *int, defaultLimit int) (int, int) {
	l := defaultLimit
	if limit != nil && *limit > 0 {
		l = *limit
	}

	o := 0
	if offset != nil && *offset > 0 {
		o = *offset
	}

	return l, o
}
