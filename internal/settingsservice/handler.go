package settingsservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/waratahblog/waratah/internal/common"
)

func NewSettingsService(db *sql.DB, c *common.Cache) *SettingsService {
	return &SettingsService{m: newSettingsModel(db), c: c}
}

// GetSettings returns the singleton row, creating it with defaults the first
// time the site is read. The row is cached until the next update.
func (s *SettingsService) GetSettings(ctx context.Context) (*Settings, error) {
	if cached, ok := s.c.Get(common.CacheKeySettings()); ok {
		return cached.(*Settings), nil
	}

	settings, err := s.m.get(ctx)
	if err != nil {
		if !errors.Is(err, ErrRecordNotFound) {
			return nil, err
		}

		if err := s.m.insertDefaults(ctx); err != nil {
			return nil, err
		}

		settings, err = s.m.get(ctx)
		if err != nil {
			return nil, err
		}
	}

	s.c.Set(common.CacheKeySettings(), settings)

	return settings, nil
}

type UpdateSettingsRequest struct {
	SiteName        string            `json:"site_name"`
	SiteDescription string            `json:"site_description"`
	ContactEmail    string            `json:"contact_email"`
	SocialLinks     map[string]string `json:"social_links"`
}

// UpdateSettings is a full replace of the singleton row.
func (s *SettingsService) UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*Settings, error) {
	v := common.NewValidator()
	v.Check(req.SiteName != "", "site_name", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if req.SocialLinks == nil {
		req.SocialLinks = map[string]string{}
	}

	settings := &Settings{
		SiteName:        req.SiteName,
		SiteDescription: req.SiteDescription,
		ContactEmail:    req.ContactEmail,
		SocialLinks:     req.SocialLinks,
	}

	if err := s.m.update(ctx, settings); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			// first write before any read seeded the row
			if err := s.m.insertDefaults(ctx); err != nil {
				return nil, err
			}
			if err := s.m.update(ctx, settings); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	s.c.Delete(common.CacheKeySettings())

	return settings, nil
}
