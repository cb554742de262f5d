package service

import "errors"

// Common service errors. The API layer maps these to HTTP status codes.
var (
	// ErrInvalidCredentials indicates a login with an unknown email or a
	// wrong password. Both cases are reported identically.
	ErrInvalidCredentials = errors.New("wrong credentials, unable to login")

	// ErrUnauthenticated indicates a request token that is missing, invalid,
	// or no longer in its user's session list.
	ErrUnauthenticated = errors.New("please authenticate yourself to access this route")
)
