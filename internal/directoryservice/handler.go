package directoryservice

import (
	"context"
	"database/sql"

	"github.com/waratahblog/waratah/internal/common"
)

func NewDirectoryService(db *sql.DB) *DirectoryService {
	return &DirectoryService{m: newDirectoryModel(db)}
}

type CreateListingRequest struct {
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	PostalCode  string            `json:"postal_code"`
	Country     string            `json:"country"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Website     string            `json:"website"`
	CategoryID  *int              `json:"category_id"`
	Location    *Location         `json:"location_data"`
	Images      []string          `json:"images"`
	Hours       map[string]string `json:"hours"`
	PriceRange  string            `json:"price_range"`
	Featured    bool              `json:"featured"`
}

func (s *DirectoryService) CreateListing(ctx context.Context, req *CreateListingRequest) (*Listing, error) {
	v := common.NewValidator()
	validateName(v, req.Name)
	validateSlug(v, req.Slug)
	validatePriceRange(v, req.PriceRange)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	slug, err := s.resolveListingSlug(ctx, req.Slug, req.Name, 0)
	if err != nil {
		return nil, err
	}

	l := &Listing{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		CategoryID:  req.CategoryID,
		Location:    req.Location,
		Images:      req.Images,
		Hours:       req.Hours,
		PriceRange:  req.PriceRange,
		Featured:    req.Featured,
	}

	if err := s.m.insertListing(ctx, l); err != nil {
		return nil, err
	}

	return s.m.getListingByID(ctx, l.ID)
}

func (s *DirectoryService) GetListings(ctx context.Context, categorySlug string, limit, offset int) ([]Listing, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.m.listListings(ctx, categorySlug, limit, offset)
}

func (s *DirectoryService) GetListingByID(ctx context.Context, id int) (*Listing, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getListingByID(ctx, id)
}

func (s *DirectoryService) GetListingBySlug(ctx context.Context, slug string) (*Listing, error) {
	v := common.NewValidator()
	v.Check(slug != "", "slug", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getListingBySlug(ctx, slug)
}

type UpdateListingRequest struct {
	ID          int               `json:"-"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	PostalCode  string            `json:"postal_code"`
	Country     string            `json:"country"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Website     string            `json:"website"`
	CategoryID  *int              `json:"category_id"`
	Location    *Location         `json:"location_data"`
	Images      []string          `json:"images"`
	Hours       map[string]string `json:"hours"`
	PriceRange  string            `json:"price_range"`
	Featured    bool              `json:"featured"`
}

// UpdateListing keeps the existing slug unless the client supplies a different
// one, so published directory URLs survive renames.
func (s *DirectoryService) UpdateListing(ctx context.Context, req *UpdateListingRequest) (*Listing, error) {
	v := common.NewValidator()
	validateInt(v, req.ID, "id")
	validateName(v, req.Name)
	validateSlug(v, req.Slug)
	validatePriceRange(v, req.PriceRange)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	current, err := s.m.getListingByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	slug := current.Slug
	if req.Slug != "" && req.Slug != current.Slug {
		slug, err = s.resolveListingSlug(ctx, req.Slug, req.Name, req.ID)
		if err != nil {
			return nil, err
		}
	}

	l := &Listing{
		ID:          req.ID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		CategoryID:  req.CategoryID,
		Location:    req.Location,
		Images:      req.Images,
		Hours:       req.Hours,
		PriceRange:  req.PriceRange,
		Featured:    req.Featured,
	}

	if err := s.m.updateListing(ctx, l); err != nil {
		return nil, err
	}

	return s.m.getListingByID(ctx, l.ID)
}

func (s *DirectoryService) DeleteListing(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteListing(ctx, id)
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (s *DirectoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*Category, error) {
	v := common.NewValidator()
	validateName(v, req.Name)
	validateSlug(v, req.Slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	slug := req.Slug
	if slug == "" {
		slug = common.Slugify(req.Name)
	}

	slug, err := common.UniqueSlug(ctx, slug, func(ctx context.Context, slug string) (bool, error) {
		return s.m.categorySlugTaken(ctx, slug, 0)
	})
	if err != nil {
		return nil, err
	}

	c := &Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}

	if err := s.m.insertCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *DirectoryService) GetCategories(ctx context.Context) ([]Category, error) {
	return s.m.listCategories(ctx)
}

func (s *DirectoryService) DeleteCategory(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteCategory(ctx, id)
}

type CreateReviewRequest struct {
	ListingID  int    `json:"-"`
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Content    string `json:"content"`
}

func (s *DirectoryService) CreateReview(ctx context.Context, req *CreateReviewRequest) (*Review, error) {
	v := common.NewValidator()
	validateInt(v, req.ListingID, "listing_id")
	v.Check(req.AuthorName != "", "author_name", "must be provided")
	validateRating(v, req.Rating)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	r := &Review{
		ListingID:  req.ListingID,
		AuthorName: req.AuthorName,
		Rating:     req.Rating,
		Content:    req.Content,
	}

	if err := s.m.insertReview(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *DirectoryService) GetReviews(ctx context.Context, listingID int) ([]Review, error) {
	v := common.NewValidator()
	validateInt(v, listingID, "listing_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.listReviews(ctx, listingID)
}

func (s *DirectoryService) DeleteReview(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteReview(ctx, id)
}

func (s *DirectoryService) resolveListingSlug(ctx context.Context, supplied, name string, excludeID int) (string, error) {
	slug := supplied
	if slug == "" {
		slug = common.Slugify(name)
	}
	if slug == "" {
		v := common.NewValidator()
		v.AddError("slug", "could not be derived from the name")
		return "", v.ValidationError()
	}

	return common.UniqueSlug(ctx, slug, func(ctx context.Context, slug string) (bool, error) {
		return s.m.listingSlugTaken(ctx, slug, excludeID)
	})
}
