package errors

import (
	"errors"
	"net/http"
)

// Exception is the error type every domain failure maps to. Services return
// the package-level sentinels and the HTTP error handler reads the status
// and message straight off them.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status carried by err, or 500 for anything
// that is not an Exception.
func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
