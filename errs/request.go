package errs

import (
	"errors"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")
)

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
		Cause:      cause,
	}
}
