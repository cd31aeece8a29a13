package keycloak

import (
	"context"
	"crypto"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"golang.org/x/oauth2"
)

// DecodeOptions control how DecodeToken verifies an ID token.
type DecodeOptions struct {
	// Key is the key set the token signature must verify against.
	Key jose.JSONWebKeySet
	// Algorithms are the accepted signing algorithms. Empty means RS256.
	Algorithms []string
	// Issuer is the expected iss claim.
	Issuer string
}

// OpenIDAPI is the set of OpenID Connect calls made against a Keycloak client.
type OpenIDAPI interface {
	// WellKnown returns the client's view of the provider configuration.
	WellKnown() WellKnown
	// DecodeToken verifies token and returns its claims.
	DecodeToken(ctx context.Context, token string, opts DecodeOptions) (Claims, error)
	// Exchange trades an authorization code for a token set.
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)
	// RefreshToken obtains a new token set using a refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// OpenIDConnect implements OpenIDAPI with go-oidc and x/oauth2.
type OpenIDConnect struct {
	clientID     string
	clientSecret string
	scopes       []string
	wellKnown    WellKnown
	now          func() time.Time
}

// Option configures an OpenIDConnect.
type Option func(*OpenIDConnect)

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *OpenIDConnect) {
		o.now = now
	}
}

// NewOpenIDConnect creates an OpenIDConnect for a client of the provider described by wk.
func NewOpenIDConnect(wk WellKnown, clientID, clientSecret string, scopes []string, opts ...Option) *OpenIDConnect {
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	o := &OpenIDConnect{
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       scopes,
		wellKnown:    wk,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WellKnown implements OpenIDAPI.
func (o *OpenIDConnect) WellKnown() WellKnown {
	return o.wellKnown
}

// DecodeToken implements OpenIDAPI. The audience must contain the client id.
func (o *OpenIDConnect) DecodeToken(ctx context.Context, token string, opts DecodeOptions) (Claims, error) {
	keys := signingKeys(opts.Key)
	if len(keys) == 0 {
		return nil, ErrNoSigningKeys
	}

	verifier := oidc.NewVerifier(opts.Issuer, &oidc.StaticKeySet{PublicKeys: keys}, &oidc.Config{
		ClientID:             o.clientID,
		SkipClientIDCheck:    o.clientID == "",
		SupportedSigningAlgs: opts.Algorithms,
		Now:                  o.now,
	})

	idToken, err := verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims Claims
	if err = idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return claims, nil
}

// Exchange implements OpenIDAPI.
func (o *OpenIDConnect) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	cfg, err := o.oauth2Config(redirectURI)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	return token, nil
}

// RefreshToken implements OpenIDAPI.
func (o *OpenIDConnect) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	cfg, err := o.oauth2Config("")
	if err != nil {
		return nil, err
	}

	token, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	return token, nil
}

func (o *OpenIDConnect) oauth2Config(redirectURI string) (*oauth2.Config, error) {
	if o.wellKnown.TokenEndpoint == "" {
		return nil, ErrNoTokenEndpoint
	}

	return &oauth2.Config{
		ClientID:     o.clientID,
		ClientSecret: o.clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       o.scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  o.wellKnown.AuthorizationEndpoint,
			TokenURL: o.wellKnown.TokenEndpoint,
		},
	}, nil
}

// signingKeys returns the public signature keys of set.
func signingKeys(set jose.JSONWebKeySet) []crypto.PublicKey {
	keys := make([]crypto.PublicKey, 0, len(set.Keys))

	for _, k := range set.Keys {
		if k.Use != "" && k.Use != "sig" {
			continue
		}

		pub := k.Public()
		if !pub.Valid() {
			continue
		}

		keys = append(keys, pub.Key)
	}

	return keys
}
