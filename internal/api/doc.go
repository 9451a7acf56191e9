// Package api contains the HTTP handlers for the REST interface. Handlers
// decode and validate requests, delegate to services and stores, and map
// internal errors onto sanitized JSON responses.
package api
