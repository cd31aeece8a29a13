package keycloak

import "errors"

var (
	// ErrNoIssuer is returned when the realm's discovery document carries no issuer.
	ErrNoIssuer = errors.New("realm well-known document has no issuer")

	// ErrNoJWKSURI is returned when the realm's discovery document carries no jwks_uri.
	ErrNoJWKSURI = errors.New("realm well-known document has no jwks_uri")

	// ErrNoTokenEndpoint is returned when a token request is made without a known token endpoint.
	ErrNoTokenEndpoint = errors.New("well-known document has no token_endpoint")

	// ErrNoSigningKeys is returned when the key set has no usable signature verification key.
	ErrNoSigningKeys = errors.New("key set has no signing keys")

	// ErrInvalidToken is returned when an ID token can not be verified.
	ErrInvalidToken = errors.New("invalid id token")

	// ErrUnexpectedStatus is returned when the identity provider answers with a non 2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status from identity provider")
)
