// Package apierror defines the JSON error envelope shared by the router, the
// request gate and the central error handler.
package apierror

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Body is the canonical error envelope for all API errors.
type Body struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
} // @name ErrorResponse

// New builds a Body for status stamped with the current time.
func New(status int, message string) Body {
	return Body{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	}
}

// Write renders the envelope on c.
func Write(c echo.Context, status int, message string) error {
	return c.JSON(status, New(status, message))
}
