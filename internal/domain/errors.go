package domain

import "errors"

// Sentinel errors for classifying failures from the statistics API.
// Clients wrap these so the CLI and TUI can react to error categories
// without knowing about HTTP status codes.
//
//	return fmt.Errorf("failed to load snapshot for %q: %w", name, domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested country (or its history) does
	// not exist upstream.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the API throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates the API answered with a server-side error.
	ErrUnavailable = errors.New("service unavailable")

	// ErrMalformedResponse indicates the response body could not be
	// decoded or contained values that could not be interpreted.
	ErrMalformedResponse = errors.New("malformed response")
)
