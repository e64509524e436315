package errors

import "net/http"

var ErrForbidden = &Exception{
	Message:    "not authorized to access this resource",
	StatusCode: http.StatusForbidden,
}
