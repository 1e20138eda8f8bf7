package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// public site
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.getPublishedPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/:slug", app.getPostBySlugHandler)
	router.HandlerFunc(http.MethodGet, "/v1/categories", app.getCategoriesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/tags", app.getTagsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/settings", app.getPublicSettingsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/directory", app.getListingsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/directory-categories", app.getDirectoryCategoriesHandler)
	router.HandlerFunc(http.MethodGet, "/v1/directory/:slug", app.getListingBySlugHandler)
	router.HandlerFunc(http.MethodGet, "/v1/directory/:slug/reviews", app.getListingReviewsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/directory/:slug/reviews", app.createListingReviewHandler)

	// sessions
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))

	// admin back office
	router.HandlerFunc(http.MethodGet, "/v1/admin/posts", app.requireAdmin(app.getAdminPostsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/posts", app.requireAdmin(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/posts/:id", app.requireAdmin(app.getPostHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/posts/:id", app.requireAdmin(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/posts/:id", app.requireAdmin(app.deletePostHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/posts/:id/comments", app.requireAdmin(app.togglePostCommentsHandler))

	router.HandlerFunc(http.MethodGet, "/v1/admin/categories", app.requireAdmin(app.getCategoriesHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/categories", app.requireAdmin(app.createCategoryHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/categories/:id", app.requireAdmin(app.getCategoryHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/categories/:id", app.requireAdmin(app.updateCategoryHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/categories/:id", app.requireAdmin(app.deleteCategoryHandler))

	router.HandlerFunc(http.MethodGet, "/v1/admin/tags", app.requireAdmin(app.getTagsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/tags", app.requireAdmin(app.createTagHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/tags/:id", app.requireAdmin(app.getTagHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/tags/:id", app.requireAdmin(app.updateTagHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/tags/:id", app.requireAdmin(app.deleteTagHandler))

	router.HandlerFunc(http.MethodGet, "/v1/admin/users", app.requireAdmin(app.getUsersHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/users", app.requireAdmin(app.createUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/users/:id", app.requireAdmin(app.getUserHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/users/:id", app.requireAdmin(app.updateUserHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/users/:id", app.requireAdmin(app.deleteUserHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/users/:id/active", app.requireAdmin(app.setUserActiveHandler))

	router.HandlerFunc(http.MethodGet, "/v1/admin/directory", app.requireAdmin(app.getAdminListingsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/directory", app.requireAdmin(app.createListingHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/directory/:id", app.requireAdmin(app.getListingHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/directory/:id", app.requireAdmin(app.updateListingHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/directory/:id", app.requireAdmin(app.deleteListingHandler))

	router.HandlerFunc(http.MethodGet, "/v1/admin/directory-categories", app.requireAdmin(app.getDirectoryCategoriesHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/directory-categories", app.requireAdmin(app.createDirectoryCategoryHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/directory-categories/:id", app.requireAdmin(app.deleteDirectoryCategoryHandler))

	router.HandlerFunc(http.MethodDelete, "/v1/admin/reviews/:id", app.requireAdmin(app.deleteReviewHandler))

	router.HandlerFunc(http.MethodGet, "/v1/admin/settings", app.requireAdmin(app.getSettingsHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/settings", app.requireAdmin(app.updateSettingsHandler))

	router.HandlerFunc(http.MethodGet, "/v1/admin/dashboard", app.requireAdmin(app.dashboardHandler))

	return app.recoverPanic(app.logRequest(app.rateLimit(app.authenticate(router))))
}
