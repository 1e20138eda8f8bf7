package main

import (
	"errors"
	"net/http"

	"github.com/waratahblog/waratah/internal/common"
	"github.com/waratahblog/waratah/internal/directoryservice"
)

func (app *application) getListingsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := app.readLimitOffsetParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var l, o int
	if limit != nil {
		l = *limit
	}
	if offset != nil {
		o = *offset
	}

	listings, err := app.directoryService.GetListings(r.Context(), app.readQueryString(r, "category"), l, o)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"listings": listings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getAdminListingsHandler(w http.ResponseWriter, r *http.Request) {
	app.getListingsHandler(w, r)
}

func (app *application) getListingBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readSlugParam(r, "slug")

	listing, err := app.directoryService.GetListingBySlug(r.Context(), slug)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"listing": listing}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createListingHandler(w http.ResponseWriter, r *http.Request) {
	var input directoryservice.CreateListingRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	listing, err := app.directoryService.CreateListing(r.Context(), &input)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"listing": listing}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getListingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	listing, err := app.directoryService.GetListingByID(r.Context(), id)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"listing": listing}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateListingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input directoryservice.UpdateListingRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	input.ID = id

	listing, err := app.directoryService.UpdateListing(r.Context(), &input)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"listing": listing}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteListingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.directoryService.DeleteListing(r.Context(), id)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "listing deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getDirectoryCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.directoryService.GetCategories(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"categories": categories}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createDirectoryCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var input directoryservice.CreateCategoryRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	category, err := app.directoryService.CreateCategory(r.Context(), &input)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"category": category}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteDirectoryCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.directoryService.DeleteCategory(r.Context(), id)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "directory category deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getListingReviewsHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readSlugParam(r, "slug")

	listing, err := app.directoryService.GetListingBySlug(r.Context(), slug)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	reviews, err := app.directoryService.GetReviews(r.Context(), listing.ID)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createListingReviewHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readSlugParam(r, "slug")

	listing, err := app.directoryService.GetListingBySlug(r.Context(), slug)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	var input directoryservice.CreateReviewRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	input.ListingID = listing.ID

	review, err := app.directoryService.CreateReview(r.Context(), &input)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"review": review}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.directoryService.DeleteReview(r.Context(), id)
	if err != nil {
		app.directoryErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "review deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) directoryErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, directoryservice.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, directoryservice.ErrDuplicateSlug):
		app.conflictErrorResponse(w, r, "this slug is already taken")
	case errors.As(err, &common.ValidationError{}):
		validationErr := err.(common.ValidationError)
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
