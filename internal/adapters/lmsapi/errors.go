package lmsapi

import (
	"errors"
	"net/http"
)

// StatusCode returns the API status carried by err, or 0 for transport failures.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether the API rejected the bearer token.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsTransport reports whether err never produced an API answer
// (network failure, cancelled context or an undecodable body).
func IsTransport(err error) bool {
	return err != nil && StatusCode(err) == 0
}

// MessageOr returns the server-supplied text of err, or fallback when there is none.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
