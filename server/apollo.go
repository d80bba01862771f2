package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/gorilla/schema"
	"github.com/gorilla/sessions"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/permissions"
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("query")
	return decoder
}

type Apollo struct {
	Writer      http.ResponseWriter
	Request     *http.Request
	Cfg         *config.Config
	User        *core.User
	logger      *slog.Logger
	permissions permissions.Service
	store       sessions.Store
}

// Populate populates the Apollo object with fields that need to be retrieved after initialisation.
// E.g. fields that are stored in the active session.
func (apollo *Apollo) populate() {
	if apollo.store != nil {
		apollo.populateUser()
	} else {
		apollo.logger.Warn("No session store provided, it will not be possible to log in")
	}
}

func (apollo *Apollo) populateUser() {
	user, err := apollo.retrieveUser()
	if errors.Is(err, core.ErrUnauthenticated) {
		apollo.User = nil
		apollo.LogField("active_user_id", slog.AnyValue(nil))
	} else if err != nil {
		apollo.logger.Error("Could not retrieve user object from session", "error", err)
		err = apollo.Logout()
		if err != nil {
			apollo.logger.Error("Could not log out of the invalid session", "error", err)
		}
	} else {
		apollo.User = user
		apollo.LogField("active_user_id", slog.StringValue(apollo.User.ID.String()))
	}
}

func (apollo *Apollo) StatusCode(code int) {
	apollo.Writer.WriteHeader(code)
}

// Log the specified error message. args is a list of structured fields to add to the error message.
// The arguments should alternate between a field's name (string) and its value (any).
// This behaves the same as [log/slog.Error]
//
// # Example
//
//	server.Error("Something went wrong", "error", err, "user", user)
func (apollo *Apollo) Error(msg string, args ...any) {
	apollo.logger.Error(msg, args...)
}

// Log the specified warning. This behaves the same as [log/slog.Warn]
func (apollo *Apollo) Warn(msg string, args ...any) {
	apollo.logger.Warn(msg, args...)
}

// Log the specified debug message. args is a list of structured fields to add to the message.
// The arguments should alternate between a field's name (string) and its value (any).
// This behaves the same as [log/slog.Debug]
//
// # Example
//
//	server.Debug("New user registered", "user", user, "id", id)
func (apollo *Apollo) Debug(msg string, args ...any) {
	apollo.logger.Debug(msg, args...)
}

// LogString will add the specified field and its value to the current request's span
func (apollo *Apollo) LogString(field string, value string) {
	apollo.LogField(field, slog.StringValue(value))
}

// LogField will add the specified field and its value to the current request's span
//
// # Example
//
// apollo.LogField("user_id", slog.IntValue(user.id)
func (apollo *Apollo) LogField(field string, value slog.Value) {
	httplog.LogEntrySetField(apollo.Context(), field, value)
}

// Context returns the request's context.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (apollo *Apollo) Context() context.Context {
	return apollo.Request.Context()
}

// Path returns the full path of the request.
func (apollo *Apollo) Path() string {
	return apollo.Request.URL.Path
}

// GetPath returns the value for the named path wildcard in the router pattern
// that matched the request.
// It returns the empty string if there is no such wildcard in the pattern.
//
// E.g.: A route defined as `/users/{id}` can call `GetPath("id")` to return the
// value for "id" in the current path.
func (apollo *Apollo) GetPath(key string) string {
	return chi.URLParam(apollo.Request, key)
}

// ParseBody parses the request body into v, the decoder is picked based on the Content-Type header.
// JSON and form bodies are supported.
//
// # Example:
//
//	var data SomeStruct
//	if err := apollo.ParseBody(&data); err != nil {
//		return err
//	}
func (apollo *Apollo) ParseBody(v interface{}) error {
	if err := render.Decode(apollo.Request, v); err != nil {
		return core.InvalidArgument("cannot parse request body: %v", err)
	}
	return nil
}

// ParseQuery decodes the query parameters of the request url into v.
// Fields are matched by their `query` tag, unknown parameters are ignored.
func (apollo *Apollo) ParseQuery(v interface{}) error {
	if err := queryDecoder.Decode(v, apollo.Request.URL.Query()); err != nil {
		return core.InvalidArgument("cannot parse query: %v", err)
	}
	return nil
}

// GetQuery returns the first value associated with the given query parameter in the request url.
// If there are no values set for the query param, this returns the empty string.
func (apollo *Apollo) GetQuery(param string) string {
	return apollo.Request.URL.Query().Get(param)
}

// GetHeader returns the first value associated with the given header in the request.
// If there are no values set for the header, this returns the empty string.
func (apollo *Apollo) GetHeader(header string) string {
	return apollo.Request.Header.Get(header)
}

// AddHeader adds the header, value pair to the response header. It appends to any existing values associated with key.
func (apollo *Apollo) AddHeader(header string, value string) {
	apollo.Writer.Header().Add(header, value)
}

// JSON writes v as the JSON response body with the specified status code.
func (apollo *Apollo) JSON(status int, v any) {
	render.Status(apollo.Request, status)
	render.JSON(apollo.Writer, apollo.Request, v)
}

// Download writes data as an attachment with the specified file name.
func (apollo *Apollo) Download(filename string, contentType string, data []byte) error {
	apollo.AddHeader("Content-Type", contentType)
	apollo.AddHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	apollo.StatusCode(http.StatusOK)
	_, err := apollo.Writer.Write(data)
	return err
}

// Redirect sends the client to the specified url with a 302 status.
func (apollo *Apollo) Redirect(url string) {
	http.Redirect(apollo.Writer, apollo.Request, url, http.StatusFound)
}

// CreateURL will return the url for the given endpoint on the current host.
func (apollo *Apollo) CreateURL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return fmt.Sprintf("%s%s", apollo.Request.Host, endpoint)
}

// RequiresLogin will return core.ErrUnauthenticated if there is no user logged in and nil otherwise.
func (apollo *Apollo) RequiresLogin() error {
	if apollo.User == nil {
		return core.ErrUnauthenticated
	}
	return nil
}

// Requires will return core.ErrForbidden if the current user does not have the specified permission and nil otherwise.
// If no user is logged in at all, this will return core.ErrUnauthenticated.
func (apollo *Apollo) Requires(permission permissions.Permission) error {
	if err := apollo.RequiresLogin(); err != nil {
		return err
	}
	if !apollo.Has(permission) {
		return core.ErrForbidden
	}
	return nil
}

// Has returns a boolean indicating whether or not the currently logged in user has the specified permission in any
// of their permission groups or not. Admins have every permission. If no user is logged in, this will return false.
func (apollo *Apollo) Has(permission permissions.Permission) bool {
	if apollo.User == nil {
		return false
	}
	if apollo.User.Admin {
		return true
	}
	if apollo.permissions == nil {
		apollo.logger.Warn(
			"Trying to use permission system while Apollo does not have access to a permissions.Service!",
		)
		return false
	}
	ok, err := apollo.permissions.HasAny(apollo.Context(), apollo.User.ID, permission)
	if err != nil {
		apollo.logger.Error("Error while checking permissions", "error", err)
		return false
	}
	return ok
}
