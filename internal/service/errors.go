// Package service provides application-level services for managing tasks and
// categories on behalf of the authenticated user.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. The API layer maps this to HTTP 404 so resource
	// existence is not leaked across accounts.
	ErrNotOwned = errors.New("resource is owned by another user")
)
