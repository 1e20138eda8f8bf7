package directoryservice

import (
	"database/sql"
	"time"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Listing struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Description  string            `json:"description"`
	Address      string            `json:"address"`
	City         string            `json:"city"`
	State        string            `json:"state"`
	PostalCode   string            `json:"postal_code"`
	Country      string            `json:"country"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email"`
	Website      string            `json:"website"`
	CategoryID   *int              `json:"category_id"`
	CategoryName *string           `json:"category_name,omitempty"`
	CategorySlug *string           `json:"category_slug,omitempty"`
	Location     *Location         `json:"location_data"`
	Images       []string          `json:"images"`
	Hours        map[string]string `json:"hours"`
	PriceRange   string            `json:"price_range"`
	Featured     bool              `json:"featured"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Review struct {
	ID         int       `json:"id"`
	ListingID  int       `json:"listing_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type DirectoryModel struct {
	db *sql.DB
}

type DirectoryService struct {
	m *DirectoryModel
}
