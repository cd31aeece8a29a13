// Package oidcprofile reconciles Keycloak ID tokens with local state.
//
// A decoded ID token is matched to an OIDC profile by its sub claim and to a
// local user by a configurable claim (UsernameTokenAttribute, "sub" by default,
// dotted paths reach nested claims) compared against a configurable user column
// (UsernameField, "username" by default). Missing rows are created, existing
// rows are updated from the claims, and the profile is linked to the user, all
// within one transaction.
//
// A UserProfileFactory may rewrite the user attributes before they are stored.
// Factories are registered by name with RegisterFactory and selected through
// configuration.
//
// The service additionally keeps the token set of a profile current:
// UpdateOrCreateFromCode exchanges an authorization code, UpdateTokens stores a
// token response and GetActiveAccessToken refreshes an expired access token.
package oidcprofile
