package taxonomyservice

import (
	"context"
	"database/sql"

	"github.com/waratahblog/waratah/internal/common"
)

func NewTaxonomyService(db *sql.DB) *TaxonomyService {
	return &TaxonomyService{m: newTaxonomyModel(db)}
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*Category, error) {
	v := common.NewValidator()
	validateName(v, req.Name)
	validateSlug(v, req.Slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	slug, err := s.resolveSlug(ctx, req.Slug, req.Name, 0, s.m.categorySlugTaken)
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

func (s *TaxonomyService) GetCategories(ctx context.Context) ([]Category, error) {
	return s.m.listCategories(ctx)
}

func (s *TaxonomyService) GetCategoryByID(ctx context.Context, id int) (*Category, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getCategoryByID(ctx, id)
}

type UpdateCategoryRequest struct {
	ID          int    `json:"-"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// UpdateCategory renames a category without touching its slug unless the
// client supplies a new one; existing URLs keep working across renames.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, req *UpdateCategoryRequest) (*Category, error) {
	v := common.NewValidator()
	validateInt(v, req.ID, "id")
	validateName(v, req.Name)
	validateSlug(v, req.Slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	current, err := s.m.getCategoryByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	slug := current.Slug
	if req.Slug != "" && req.Slug != current.Slug {
		slug, err = common.UniqueSlug(ctx, req.Slug, func(ctx context.Context, slug string) (bool, error) {
			return s.m.categorySlugTaken(ctx, slug, req.ID)
		})
		if err != nil {
			return nil, err
		}
	}

	c := &Category{
		ID:          req.ID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}

	if err := s.m.updateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *TaxonomyService) DeleteCategory(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteCategory(ctx, id)
}

type CreateTagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *TaxonomyService) CreateTag(ctx context.Context, req *CreateTagRequest) (*Tag, error) {
	v := common.NewValidator()
	validateName(v, req.Name)
	validateSlug(v, req.Slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	slug, err := s.resolveSlug(ctx, req.Slug, req.Name, 0, s.m.tagSlugTaken)
	if err != nil {
		return nil, err
	}

	t := &Tag{
		Name: req.Name,
		Slug: slug,
	}

	if err := s.m.insertTag(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *TaxonomyService) GetTags(ctx context.Context) ([]Tag, error) {
	return s.m.listTags(ctx)
}

func (s *TaxonomyService) GetTagByID(ctx context.Context, id int) (*Tag, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getTagByID(ctx, id)
}

type UpdateTagRequest struct {
	ID   int    `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *TaxonomyService) UpdateTag(ctx context.Context, req *UpdateTagRequest) (*Tag, error) {
	v := common.NewValidator()
	validateInt(v, req.ID, "id")
	validateName(v, req.Name)
	validateSlug(v, req.Slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	current, err := s.m.getTagByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	slug := current.Slug
	if req.Slug != "" && req.Slug != current.Slug {
		slug, err = common.UniqueSlug(ctx, req.Slug, func(ctx context.Context, slug string) (bool, error) {
			return s.m.tagSlugTaken(ctx, slug, req.ID)
		})
		if err != nil {
			return nil, err
		}
	}

	t := &Tag{
		ID:   req.ID,
		Name: req.Name,
		Slug: slug,
	}

	if err := s.m.updateTag(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *TaxonomyService) DeleteTag(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteTag(ctx, id)
}

// resolveSlug picks the client slug or derives one from the name, then applies
// the uniqueness guard with the given row excluded.
func (s *TaxonomyService) resolveSlug(ctx context.Context, supplied, name string, excludeID int, taken func(context.Context, string, int) (bool, error)) (string, error) {
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
		return taken(ctx, slug, excludeID)
	})
}
