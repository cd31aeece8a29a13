package keycloak

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimsLookup(t *testing.T) {
	claims := Claims{
		"sub":   "some-sub",
		"email": "test@example.com",
		"foo": map[string]any{
			"bar": "joe.random",
			"baz": map[string]any{"qux": "deep"},
		},
		"roles": []any{"admin"},
		"nested": Claims{
			"value": "typed",
		},
	}

	testCases := []struct {
		name     string
		path     string
		expected any
		found    bool
	}{
		{name: "top level", path: "sub", expected: "some-sub", found: true},
		{name: "nested", path: "foo.bar", expected: "joe.random", found: true},
		{name: "two levels", path: "foo.baz.qux", expected: "deep", found: true},
		{name: "nested claims value", path: "nested.value", expected: "typed", found: true},
		{name: "missing", path: "given_name"},
		{name: "missing nested", path: "foo.missing"},
		{name: "through a string", path: "sub.foo"},
		{name: "through a list", path: "roles.0"},
		{name: "empty path"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := claims.Lookup(tc.path)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestClaimsString(t *testing.T) {
	claims := Claims{
		"sub":   "some-sub",
		"admin": true,
		"foo":   map[string]any{"bar": "joe.random"},
	}

	assert.Equal(t, "some-sub", claims.Subject())
	assert.Equal(t, "joe.random", claims.String("foo.bar"))
	assert.Empty(t, claims.String("admin"))
	assert.Empty(t, claims.String("foo"))
	assert.Empty(t, claims.String("email"))
	assert.Empty(t, Claims{}.Subject())
}

func TestParseWellKnown(t *testing.T) {
	wk, err := ParseWellKnown(`{
		"issuer": "https://issuer",
		"token_endpoint": "https://issuer/token",
		"jwks_uri": "https://issuer/certs",
		"id_token_signing_alg_values_supported": ["RS256", "ES256"]
	}`)
	assert.NoError(t, err)
	assert.Equal(t, "https://issuer", wk.Issuer)
	assert.Equal(t, "https://issuer/token", wk.TokenEndpoint)
	assert.Equal(t, "https://issuer/certs", wk.JWKSURI)
	assert.Equal(t, []string{"RS256", "ES256"}, wk.IDTokenSigningAlgValuesSupported)

	wk, err = ParseWellKnown("")
	assert.NoError(t, err)
	assert.Equal(t, WellKnown{}, wk)

	_, err = ParseWellKnown("{not json")
	assert.Error(t, err)
}
