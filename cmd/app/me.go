package main

import (
	"errors"
	"net/http"

	"github.com/hanamachi/inkwell/internal/common"
	"github.com/hanamachi/inkwell/internal/userservice"
)

// myBlogsHandler lists the requester's own blogs, drafts included unless the
// published parameter says otherwise.
func (app *application) myBlogsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	filter, err := app.readListFilter(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	published, err := app.readQueryBool(r, "published")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}
	filter.Published = published

	blogs, metadata, err := app.blogService.ListByAuthor(r.Context(), user.ID, filter)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) statsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	stats, err := app.blogService.AuthorStats(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var input userservice.UpdateProfileRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	updated, err := app.userService.UpdateProfile(r.Context(), user.ID, &input)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateUsername):
			app.failedValidationErrorResponse(w, r, map[string]string{"username": "this username is already taken"})
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

	err = app.writeJSON(w, http.StatusOK, envelope{"user": updated.Public()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
