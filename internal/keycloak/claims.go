package keycloak

import "strings"

// Claims holds the decoded payload of an ID token.
type Claims map[string]any

// Lookup returns the claim at path. Dots in path descend into nested objects,
// so "address.country" reads the country member of the address claim.
func (c Claims) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = map[string]any(c)

	for _, key := range strings.Split(path, ".") {
		var (
			value any
			ok    bool
		)

		switch node := current.(type) {
		case map[string]any:
			value, ok = node[key]
		case Claims:
			value, ok = node[key]
		}

		if !ok {
			return nil, false
		}

		current = value
	}

	return current, true
}

// String returns the string claim at path, or "" if it is absent or not a string.
func (c Claims) String(path string) string {
	v, ok := c.Lookup(path)
	if !ok {
		return ""
	}

	s, _ := v.(string)

	return s
}

// Subject returns the sub claim.
func (c Claims) Subject() string {
	return c.String("sub")
}
