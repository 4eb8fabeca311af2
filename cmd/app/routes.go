package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/hanamachi/inkwell/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activate", app.activateUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/refresh", app.refreshTokenHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))

	// public profiles
	router.HandlerFunc(http.MethodGet, "/v1/profiles/:id", app.getProfileHandler)

	// requester-scoped endpoints
	router.HandlerFunc(http.MethodPut, "/v1/me/profile", app.requireAuthUser(app.updateProfileHandler))
	router.HandlerFunc(http.MethodGet, "/v1/me/blogs", app.requireAuthUser(app.myBlogsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/me/stats", app.requireAuthUser(app.statsHandler))

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.requirePermission(app.createBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id", app.requirePermission(app.updateBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", app.requirePermission(app.deleteBlogHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/like", app.requireActivatedUser(http.HandlerFunc(app.likeBlogHandler)))
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/comments", app.requireActivatedUser(http.HandlerFunc(app.addCommentHandler)))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
