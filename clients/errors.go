package clients

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotAuthenticated is returned without any network call when a
	// token-bearing endpoint is used by a session holding no token.
	ErrNotAuthenticated = errors.New("user not authenticated")
	// ErrUnauthorized matches any 401 from the backend.
	ErrUnauthorized = errors.New("unauthorized")
)

// UpstreamError is a non-2xx answer from the backend
type UpstreamError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s %s: status=%d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Message returns the text shown to users for err: the backend's own
// message for upstream errors, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Message
	}
	return err.Error()
}
