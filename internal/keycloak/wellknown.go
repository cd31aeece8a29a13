package keycloak

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WellKnown is the subset of the OpenID Connect discovery document used here.
type WellKnown struct {
	Issuer                           string   `json:"issuer"`
	AuthorizationEndpoint            string   `json:"authorization_endpoint"`
	TokenEndpoint                    string   `json:"token_endpoint"`
	UserInfoEndpoint                 string   `json:"userinfo_endpoint"`
	EndSessionEndpoint               string   `json:"end_session_endpoint"`
	JWKSURI                          string   `json:"jwks_uri"`
	IDTokenSigningAlgValuesSupported []string `json:"id_token_signing_alg_values_supported"`
}

// ParseWellKnown decodes a stored discovery document. An empty document yields
// a zero WellKnown.
func ParseWellKnown(document string) (WellKnown, error) {
	var wk WellKnown

	if strings.TrimSpace(document) == "" {
		return wk, nil
	}

	if err := json.Unmarshal([]byte(document), &wk); err != nil {
		return WellKnown{}, fmt.Errorf("failed to parse well-known document: %w", err)
	}

	return wk, nil
}
