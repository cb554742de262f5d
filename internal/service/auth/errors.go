package auth

import "errors"

var (
	// ErrInvalidToken is returned for malformed tokens, bad signatures and
	// unexpected signing methods.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is only possible when a token lifetime is configured.
	ErrExpiredToken = errors.New("authentication token has expired")

	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	ErrMissingToken = errors.New("authentication token is missing")

	// ErrPasswordMismatch means the plaintext does not match the stored hash.
	ErrPasswordMismatch = errors.New("password does not match")
)
