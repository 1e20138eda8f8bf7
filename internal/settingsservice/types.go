package settingsservice

import (
	"database/sql"
	"time"

	"github.com/waratahblog/waratah/internal/common"
)

// Settings is a singleton row (id = 1) holding the site identity.
type Settings struct {
	SiteName        string            `json:"site_name"`
	SiteDescription string            `json:"site_description"`
	ContactEmail    string            `json:"contact_email"`
	SocialLinks     map[string]string `json:"social_links"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type SettingsModel struct {
	db *sql.DB
}

type SettingsService struct {
	m *SettingsModel
	c *common.Cache
}
