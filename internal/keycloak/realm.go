package keycloak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/db/controller/realm"
	"github.com/kcprofile/kcprofile/internal/db/models"
)

// maxJWKSSize caps the size of a key set response body.
const maxJWKSSize = 1 << 20

// IssuerURL returns the issuer URL Keycloak uses for the realm.
func IssuerURL(r *models.Realm) string {
	return strings.TrimRight(r.ServerURL, "/") + "/realms/" + url.PathEscape(r.Name)
}

// Issuer returns the issuer recorded in the realm's stored discovery document.
func Issuer(r *models.Realm) (string, error) {
	wk, err := ParseWellKnown(r.WellKnownOIDC)
	if err != nil {
		return "", err
	}

	if wk.Issuer == "" {
		return "", ErrNoIssuer
	}

	return wk.Issuer, nil
}

// Certs returns the realm's stored JSON Web Key Set.
func Certs(r *models.Realm) (jose.JSONWebKeySet, error) {
	var set jose.JSONWebKeySet

	if strings.TrimSpace(r.Certs) == "" {
		return set, nil
	}

	if err := json.Unmarshal([]byte(r.Certs), &set); err != nil {
		return jose.JSONWebKeySet{}, fmt.Errorf("failed to parse realm certs: %w", err)
	}

	return set, nil
}

// RefreshWellKnownOIDC discovers the realm's provider configuration and stores
// the raw discovery document on the realm.
func RefreshWellKnownOIDC(ctx context.Context, db *gorm.DB, r *models.Realm) error {
	issuer := IssuerURL(r)

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return fmt.Errorf("failed to discover realm %s: %w", r.Name, err)
	}

	var document json.RawMessage
	if err = provider.Claims(&document); err != nil {
		return fmt.Errorf("failed to read discovery document of realm %s: %w", r.Name, err)
	}

	if err = realm.UpdateWellKnownOIDC(db, r, string(document)); err != nil {
		return fmt.Errorf("failed to store discovery document of realm %s: %w", r.Name, err)
	}

	r.WellKnownOIDC = string(document)

	log.Info().Str("realm", r.Name).Str("issuer", issuer).Msg("refreshed realm well-known document")

	return nil
}

// RefreshCerts downloads the realm's key set from the jwks_uri of the stored
// discovery document and stores it on the realm.
func RefreshCerts(ctx context.Context, db *gorm.DB, r *models.Realm) error {
	wk, err := ParseWellKnown(r.WellKnownOIDC)
	if err != nil {
		return err
	}

	if wk.JWKSURI == "" {
		return ErrNoJWKSURI
	}

	body, err := fetch(ctx, wk.JWKSURI)
	if err != nil {
		return fmt.Errorf("failed to fetch certs of realm %s: %w", r.Name, err)
	}

	var set jose.JSONWebKeySet
	if err = json.Unmarshal(body, &set); err != nil {
		return fmt.Errorf("failed to parse certs of realm %s: %w", r.Name, err)
	}

	if err = realm.UpdateCerts(db, r, string(body)); err != nil {
		return fmt.Errorf("failed to store certs of realm %s: %w", r.Name, err)
	}

	r.Certs = string(body)

	log.Info().Str("realm", r.Name).Int("keys", len(set.Keys)).Msg("refreshed realm certs")

	return nil
}

// fetch GETs uri with the HTTP client carried by ctx (see oidc.ClientContext).
func fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := httpClient(ctx).Do(req)
	if err != nil {
		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSSize))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	return body, nil
}

func httpClient(ctx context.Context) *http.Client {
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil {
		return c
	}

	return http.DefaultClient
}
