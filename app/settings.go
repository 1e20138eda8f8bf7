package main

import (
	"errors"
	"net/http"

	"github.com/waratahblog/waratah/internal/common"
	"github.com/waratahblog/waratah/internal/settingsservice"
)

func (app *application) getPublicSettingsHandler(w http.ResponseWriter, r *http.Request) {
	app.getSettingsHandler(w, r)
}

func (app *application) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := app.settingsService.GetSettings(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"settings": settings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var input settingsservice.UpdateSettingsRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	settings, err := app.settingsService.UpdateSettings(r.Context(), &input)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"settings": settings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
