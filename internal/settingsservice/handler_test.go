package settingsservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/waratahblog/waratah/internal/common"
)

func setupTestEnvironment(t *testing.T) *SettingsService {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM settings")
		assert.NoError(t, err)
	})

	return NewSettingsService(db, cache)
}

func TestGetSettingsSeedsDefaults(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	settings, err := s.GetSettings(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Australia Travel Blog", settings.SiteName)
	assert.NotNil(t, settings.SocialLinks)
	assert.Empty(t, settings.SocialLinks)
}

func TestUpdateSettings(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.GetSettings(ctx)
	assert.NoError(t, err)

	updated, err := s.UpdateSettings(ctx, &UpdateSettingsRequest{
		SiteName:        "Waratah",
		SiteDescription: "Travel notes from down under",
		ContactEmail:    "hello@waratah.blog",
		SocialLinks:     map[string]string{"instagram": "https://instagram.com/waratah"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Waratah", updated.SiteName)

	// cache was dropped on update; the next read sees the new row
	got, err := s.GetSettings(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Waratah", got.SiteName)
	assert.Equal(t, "https://instagram.com/waratah", got.SocialLinks["instagram"])
}

func TestUpdateSettingsValidation(t *testing.T) {
	s := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := s.UpdateSettings(ctx, &UpdateSettingsRequest{})
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"site_name": "must be provided"}}, err)
}
