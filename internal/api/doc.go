// Package api exposes users, sessions, avatars and tasks over JSON HTTP.
// Handlers decode and validate requests and delegate to the service layer.
// Errors become status codes and client-safe messages through
// MapErrorToStatusCode and GetSafeErrorMessage. Users leave this package
// only in their redacted PublicUser form.
package api
