package oidcprofile

import "errors"

var (
	// ErrEmptyIDToken is returned when an empty ID token is given.
	ErrEmptyIDToken = errors.New("id token cannot be empty")

	// ErrSubClaimMissing is returned when a decoded ID token has no sub claim.
	ErrSubClaimMissing = errors.New("id token has no sub claim")

	// ErrUsernameClaimMissing is returned when the configured username claim is missing or not a string.
	ErrUsernameClaimMissing = errors.New("id token has no usable username claim")

	// ErrNoIDToken is returned when a token response does not contain an ID token.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrTokenNotFound is returned when a profile has no stored access token.
	ErrTokenNotFound = errors.New("oidc profile has no access token")

	// ErrTokenExpired is returned when the access token expired and can not be refreshed.
	ErrTokenExpired = errors.New("oidc profile tokens expired")

	// ErrUnknownFactory is returned when no user profile factory is registered under a name.
	ErrUnknownFactory = errors.New("unknown user profile factory")
)
