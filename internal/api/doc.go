// Package api implements the HTTP handlers, request/response models, and
// error mapping for the service's REST endpoints.
package api
