// filepath: internal/services/service_errors.go
package services

import "errors"

// Standard errors returned by the service layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Capitalised on purpose: the message is part of the wire contract
	// of POST /crawl_site ("Fetch failed: <cause>").
	ErrFetchFailed = errors.New("Fetch failed")
)
