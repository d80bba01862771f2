package server

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/prior-it/crud/core"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string           `json:"error"`
	Fields []core.FieldError `json:"fields,omitempty"`
}

func DefaultErrorHandler(apollo *Apollo, err error) {
	var validationErr *core.ValidationError
	code, msg := func() (int, string) {
		switch {
		case errors.As(err, &validationErr):
			return http.StatusBadRequest, "validation failed"
		case errors.Is(err, core.ErrInvalidCredentials):
			return http.StatusUnauthorized, core.ErrInvalidCredentials.Error()
		case errors.Is(err, core.ErrInvalidArgument):
			return http.StatusBadRequest, err.Error()
		case errors.Is(err, core.ErrUnauthenticated):
			return http.StatusUnauthorized, "unauthorized"
		case errors.Is(err, core.ErrForbidden):
			return http.StatusForbidden, "forbidden"
		case errors.Is(err, core.ErrConflict):
			return http.StatusConflict, "conflict"
		case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrUserDoesNotExist):
			return http.StatusNotFound, "not found"
		}
		return http.StatusInternalServerError, "internal server error"
	}()

	if code >= http.StatusInternalServerError {
		apollo.Error("Server error", "error", err)
		if hub := sentry.GetHubFromContext(apollo.Context()); hub != nil {
			hub.CaptureException(err)
		}
	} else {
		apollo.Debug("Request failed", "error", err, "status", code)
	}

	response := ErrorResponse{Error: msg}
	if validationErr != nil {
		response.Fields = validationErr.Fields
	}
	apollo.JSON(code, response)
}
