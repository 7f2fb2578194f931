package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error rendered to BFF callers
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap copies a sentinel with err attached, leaving the sentinel itself untouched.
func (e *Error) Wrap(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

var (
	ErrBadRequest      = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized    = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden       = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound        = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer  = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrUpstream        = New(http.StatusBadGateway, "Upstream request failed", nil)
	ErrInvalidQuantity = New(http.StatusBadRequest, "Quantity must be a non-negative integer", nil)
)

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		var appErr *Error
		if !stderrors.As(err, &appErr) {
			appErr = ErrInternalServer.Wrap(err)
		}
		c.AbortWithStatusJSON(appErr.Code, gin.H{"success": false, "error": appErr.Message})
	}
}
