package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shownotes/internal/logging"
	"shownotes/internal/store"
)

// envelope is the uniform response shape: {"success": true, "data": ...} on
// success, {"success": false, "error": "..."} on failure.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Error: message})
}

// storeError maps the store's failure taxonomy to HTTP statuses: missing ids
// are 404, violated preconditions are 400, anything else is a 500.
func (s *Server) storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidArgument):
		return respondError(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("operation failed",
			logging.String("path", c.Request().URL.Path),
			logging.Error(err))
		return respondError(c, http.StatusInternalServerError, err.Error())
	}
}
