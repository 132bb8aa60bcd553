package auth

import "errors"

// Session token errors. The auth middleware maps all of them to 401.
var (
	// ErrInvalidToken covers malformed tokens and bad signatures
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid means iat or nbf lies beyond the allowed clock skew
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWrongTokenType indicates a validly signed token issued for another purpose
	ErrWrongTokenType = errors.New("wrong authentication token type")
)
