// Package main provides the kcprofile command line. It links users of an
// application to identities of a Keycloak realm: ID tokens are verified
// against the realm's stored certs and reconciled with local user rows and
// OIDC profiles, which also hold the access and refresh tokens of the user.
// Persistence uses gorm on mysql, postgres or sqlite.
package main
