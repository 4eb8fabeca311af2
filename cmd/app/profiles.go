package main

import (
	"errors"
	"net/http"

	"github.com/hanamachi/inkwell/internal/blogservice"
	"github.com/hanamachi/inkwell/internal/common"
	"github.com/hanamachi/inkwell/internal/userservice"
)

// getProfileHandler returns a user's public fields together with a page of
// their published blogs.
func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.GetPublicProfile(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	filter, err := app.readListFilter(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	published := true
	filter.Published = &published

	blogs, metadata, err := app.blogService.ListByAuthor(r.Context(), id, filter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user, "blogs": blogs, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// readListFilter reads the shared pagination parameters.
func (app *application) readListFilter(r *http.Request) (blogservice.ListFilter, error) {
	var filter blogservice.ListFilter

	page, err := app.readQueryInt(r, "page", 1)
	if err != nil {
		return filter, err
	}

	limit, err := app.readQueryInt(r, "limit", 10)
	if err != nil {
		return filter, err
	}

	filter.Page = page
	filter.Limit = limit

	return filter, nil
}
