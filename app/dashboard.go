package main

import "net/http"

type dashboardCounts struct {
	Posts      int `json:"posts"`
	Published  int `json:"published"`
	Categories int `json:"categories"`
	Tags       int `json:"tags"`
	Users      int `json:"users"`
	Listings   int `json:"listings"`
}

type dashboardPost struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

type dashboardUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// dashboardHandler aggregates the back-office landing page in one place: row
// counts per resource plus the five most recently updated posts and newest
// users.
func (app *application) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var counts dashboardCounts
	query := `
		SELECT
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM posts WHERE status = 'published'),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM tags),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM directory_listings)`

	err := app.db.QueryRowContext(ctx, query).Scan(&counts.Posts, &counts.Published, &counts.Categories, &counts.Tags, &counts.Users, &counts.Listings)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	recentPosts := []dashboardPost{}
	rows, err := app.db.QueryContext(ctx, `SELECT id, title, slug, status FROM posts ORDER BY updated_at DESC LIMIT 5`)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var p dashboardPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Status); err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		recentPosts = append(recentPosts, p)
	}
	if err := rows.Err(); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	recentUsers := []dashboardUser{}
	rows, err = app.db.QueryContext(ctx, `SELECT id, name, email FROM users ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var u dashboardUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		recentUsers = append(recentUsers, u)
	}
	if err := rows.Err(); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	env := envelope{
		"counts":       counts,
		"recent_posts": recentPosts,
		"recent_users": recentUsers,
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
