package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the standard success response shape.
type APIResponse struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path"`
}

// APIError is the standard error response shape.
type APIError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Path    string `json:"path"`
	Status  int    `json:"status"`
}

func pathFromContext(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().URL.Path
}

func success(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, APIResponse{
		Data:    data,
		Status:  status,
		Message: message,
		Path:    pathFromContext(c),
	})
}

// OK sends a 200 response with data.
func OK(c echo.Context, data any, message string) error {
	return success(c, http.StatusOK, data, message)
}

// Created sends a 201 response with data.
func Created(c echo.Context, data any, message string) error {
	return success(c, http.StatusCreated, data, message)
}

// Error sends a JSON error response using APIError.
func Error(c echo.Context, status int, message, errDetail string) error {
	return c.JSON(status, APIError{
		Message: message,
		Error:   errDetail,
		Path:    pathFromContext(c),
		Status:  status,
	})
}

// BadRequest sends 400 with message and error detail.
func BadRequest(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusBadRequest, message, errDetail)
}

// NotFound sends 404 with message and error detail.
func NotFound(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusNotFound, message, errDetail)
}

// Conflict sends 409, e.g. for a duplicate template name.
func Conflict(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusConflict, message, errDetail)
}

// TooLarge sends 413 when a document exceeds the accepted size.
func TooLarge(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusRequestEntityTooLarge, message, errDetail)
}

// Unprocessable sends 422 for documents that parse but cannot be used,
// or that do not parse in the requested format.
func Unprocessable(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusUnprocessableEntity, message, errDetail)
}

// InternalError sends 500 with message and error detail.
func InternalError(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusInternalServerError, message, errDetail)
}
