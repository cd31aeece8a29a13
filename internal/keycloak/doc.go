// Package keycloak adapts a Keycloak realm and client to the OpenID Connect
// operations the rest of the application needs.
//
// Token decoding and signature verification are delegated to
// github.com/coreos/go-oidc, authorization code exchange and token refresh to
// golang.org/x/oauth2. The realm's discovery document and signing keys are
// cached on the realm row and refreshed on demand:
//
//	r, _ := realm.Get(db, "master")
//	if err := keycloak.RefreshWellKnownOIDC(ctx, db, r); err != nil { ... }
//	if err := keycloak.RefreshCerts(ctx, db, r); err != nil { ... }
//
//	c, _ := keycloak.LoadClient(db, "master", "my-app", nil)
//	claims, err := c.OpenID.DecodeToken(ctx, rawIDToken, keycloak.DecodeOptions{...})
package keycloak
