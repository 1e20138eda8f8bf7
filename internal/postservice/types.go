package postservice

import (
	"database/sql"
	"time"

	"github.com/waratahblog/waratah/internal/common"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	// Content is stored in Markdown format.
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt"`
	Status          string     `json:"status"`
	PublishedAt     *time.Time `json:"published_at"`
	CategoryID      *int       `json:"category_id"`
	CategoryName    *string    `json:"category_name,omitempty"`
	CategorySlug    *string    `json:"category_slug,omitempty"`
	CommentsEnabled bool       `json:"comments_enabled"`
	AuthorID        *int       `json:"author_id"`
	Tags            []string   `json:"tags"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListFilters narrows the public post listing. Zero values mean "no filter".
type ListFilters struct {
	CategorySlug string
	TagSlug      string
	Search       string
}

type PostModel struct {
	db *sql.DB
}

type PostService struct {
	m *PostModel
	c *common.Cache
}
