package settingsservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var ErrRecordNotFound = errors.New("record not found")

const (
	defaultSiteName        = "Australia Travel Blog"
	defaultSiteDescription = "Your guide to exploring Australia"
	defaultContactEmail    = "contact@example.com"
)

func newSettingsModel(db *sql.DB) *SettingsModel {
	return &SettingsModel{db: db}
}

func (m *SettingsModel) get(ctx context.Context) (*Settings, error) {
	query := `
		SELECT site_name, site_description, contact_email, social_links, updated_at
		FROM settings
		WHERE id = 1`

	var (
		s         Settings
		linksJSON []byte
	)

	err := m.db.QueryRowContext(ctx, query).Scan(&s.SiteName, &s.SiteDescription, &s.ContactEmail, &linksJSON, &s.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if err := json.Unmarshal(linksJSON, &s.SocialLinks); err != nil {
		return nil, err
	}

	return &s, nil
}

// insertDefaults seeds the singleton row on first read. The conflict clause
// makes concurrent first reads safe.
func (m *SettingsModel) insertDefaults(ctx context.Context) error {
	query := `
		INSERT INTO settings (id, site_name, site_description, contact_email, social_links)
		VALUES (1, $1, $2, $3, '{}')
		ON CONFLICT (id) DO NOTHING`

	_, err := m.db.ExecContext(ctx, query, defaultSiteName, defaultSiteDescription, defaultContactEmail)
	return err
}

func (m *SettingsModel) update(ctx context.Context, s *Settings) error {
	linksJSON, err := json.Marshal(s.SocialLinks)
	if err != nil {
		return err
	}

	query := `
		UPDATE settings
		SET site_name = $1, site_description = $2, contact_email = $3, social_links = $4, updated_at = NOW()
		WHERE id = 1
		RETURNING updated_at`

	err = m.db.QueryRowContext(ctx, query, s.SiteName, s.SiteDescription, s.ContactEmail, linksJSON).Scan(&s.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}
