package main

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/v1/healthcheck", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", body["status"])
}

func TestLoginAndLogout(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	token := createTestAdmin(t, app)

	status, _, body := ts.post(t, "/v1/users/login", map[string]string{
		"email":    "admin@waratah.blog",
		"password": "pa55word123",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, body["token"])

	status, _, _ = ts.post(t, "/v1/users/login", map[string]string{
		"email":    "admin@waratah.blog",
		"password": "wrongpassword",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// the earlier login replaced the first token
	status, _, _ = ts.post(t, "/v1/users/logout", nil, &token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminRoutesRejectAnonymous(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	paths := []string{
		"/v1/admin/posts",
		"/v1/admin/categories",
		"/v1/admin/tags",
		"/v1/admin/users",
		"/v1/admin/settings",
		"/v1/admin/dashboard",
		"/v1/admin/directory",
	}

	for _, path := range paths {
		status, _, _ := ts.get(t, path, nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
}

func TestPostLifecycle(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	token := createTestAdmin(t, app)

	status, _, body := ts.post(t, "/v1/admin/posts", map[string]any{
		"title":   "Snorkelling the Great Barrier Reef",
		"content": "Bring reef-safe sunscreen.",
		"status":  "published",
		"tags":    []string{"Reef", "Diving"},
	}, &token)
	assert.Equal(t, http.StatusCreated, status)

	post := body["post"].(map[string]any)
	assert.Equal(t, "snorkelling-the-great-barrier-reef", post["slug"])
	assert.ElementsMatch(t, []any{"Diving", "Reef"}, post["tags"])

	// visible on the public site
	status, _, body = ts.get(t, "/v1/posts/snorkelling-the-great-barrier-reef", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Snorkelling the Great Barrier Reef", body["post"].(map[string]any)["title"])

	// full replace drops Reef
	id := int(post["id"].(float64))
	status, _, body = ts.put(t, postPath(id), &token, map[string]any{
		"title":  "Snorkelling the Great Barrier Reef",
		"status": "published",
		"tags":   []string{"Diving"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.ElementsMatch(t, []any{"Diving"}, body["post"].(map[string]any)["tags"])

	status, _, _ = ts.delete(t, postPath(id), &token)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = ts.get(t, "/v1/posts/snorkelling-the-great-barrier-reef", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func postPath(id int) string {
	return "/v1/admin/posts/" + strconv.Itoa(id)
}

func TestDraftPostsHiddenFromPublic(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	token := createTestAdmin(t, app)

	status, _, _ := ts.post(t, "/v1/admin/posts", map[string]any{
		"title": "Unfinished Outback Notes",
	}, &token)
	assert.Equal(t, http.StatusCreated, status)

	status, _, body := ts.get(t, "/v1/posts", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["posts"])

	status, _, body = ts.get(t, "/v1/admin/posts", &token)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["posts"], 1)
}

func TestCreatePostValidation(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	token := createTestAdmin(t, app)

	status, _, body := ts.post(t, "/v1/admin/posts", map[string]any{
		"content": "body without a title",
	}, &token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	errs := body["error"].(map[string]any)
	assert.Equal(t, "must be provided", errs["title"])

	status, _, _ = ts.post(t, "/v1/admin/posts", map[string]any{
		"title":  "Bad Status",
		"status": "archived",
	}, &token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestCategoryEndpoints(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	token := createTestAdmin(t, app)

	status, _, body := ts.post(t, "/v1/admin/categories", map[string]string{
		"name": "Beach Trips",
	}, &token)
	assert.Equal(t, http.StatusCreated, status)

	category := body["category"].(map[string]any)
	assert.Equal(t, "beach-trips", category["slug"])

	// public list includes the new category
	status, _, body = ts.get(t, "/v1/categories", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["categories"], 1)

	id := int(category["id"].(float64))
	status, _, body = ts.put(t, "/v1/admin/categories/"+strconv.Itoa(id), &token, map[string]string{
		"name": "Coastal Trips",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "beach-trips", body["category"].(map[string]any)["slug"])

	status, _, _ = ts.delete(t, "/v1/admin/categories/"+strconv.Itoa(id), &token)
	assert.Equal(t, http.StatusOK, status)
}

func TestSettingsEndpoints(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	token := createTestAdmin(t, app)

	status, _, body := ts.get(t, "/v1/admin/settings", &token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Australia Travel Blog", body["settings"].(map[string]any)["site_name"])

	status, _, body = ts.put(t, "/v1/admin/settings", &token, map[string]any{
		"site_name":    "Waratah",
		"social_links": map[string]string{"instagram": "https://instagram.com/waratah"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Waratah", body["settings"].(map[string]any)["site_name"])
}

func TestDirectoryPublicFlow(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	token := createTestAdmin(t, app)

	status, _, body := ts.post(t, "/v1/admin/directory", map[string]any{
		"name": "Bondi Surf School",
		"city": "Sydney",
	}, &token)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "bondi-surf-school", body["listing"].(map[string]any)["slug"])

	status, _, _ = ts.get(t, "/v1/directory/bondi-surf-school", nil)
	assert.Equal(t, http.StatusOK, status)

	// anyone can leave a review
	status, _, _ = ts.post(t, "/v1/directory/bondi-surf-school/reviews", map[string]any{
		"author_name": "Mia",
		"rating":      5,
		"content":     "Great instructors.",
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	status, _, _ = ts.post(t, "/v1/directory/bondi-surf-school/reviews", map[string]any{
		"author_name": "Oliver",
		"rating":      9,
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _, body = ts.get(t, "/v1/directory/bondi-surf-school/reviews", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["reviews"], 1)
}

func TestDashboard(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	token := createTestAdmin(t, app)

	status, _, _ := ts.post(t, "/v1/admin/posts", map[string]any{
		"title":  "Perth to Broome Road Trip",
		"status": "published",
	}, &token)
	assert.Equal(t, http.StatusCreated, status)

	status, _, body := ts.get(t, "/v1/admin/dashboard", &token)
	assert.Equal(t, http.StatusOK, status)

	counts := body["counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["posts"])
	assert.Equal(t, float64(1), counts["published"])
	assert.Equal(t, float64(1), counts["users"])
	assert.Len(t, body["recent_posts"], 1)
}

func TestUserManagementEndpoints(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	token := createTestAdmin(t, app)

	status, _, body := ts.post(t, "/v1/admin/users", map[string]string{
		"name":     "Editor",
		"email":    "editor@waratah.blog",
		"password": "pa55word123",
		"role":     "admin",
	}, &token)
	assert.Equal(t, http.StatusCreated, status)

	id := int(body["user"].(map[string]any)["id"].(float64))

	// duplicate email rejected
	status, _, _ = ts.post(t, "/v1/admin/users", map[string]string{
		"name":     "Editor Again",
		"email":    "editor@waratah.blog",
		"password": "pa55word123",
	}, &token)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// deactivate, then the account cannot log in
	status, _, _ = ts.put(t, "/v1/admin/users/"+strconv.Itoa(id)+"/active", &token, map[string]bool{"active": false})
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = ts.post(t, "/v1/users/login", map[string]string{
		"email":    "editor@waratah.blog",
		"password": "pa55word123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
