package errors

import "net/http"

var ErrUnauthorized = &Exception{
	Message:    "not authorized to access this route",
	StatusCode: http.StatusUnauthorized,
}
