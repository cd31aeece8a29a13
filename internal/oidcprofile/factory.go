package oidcprofile

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kcprofile/kcprofile/internal/db/controller/user"
	"github.com/kcprofile/kcprofile/internal/keycloak"
)

// UserProfileFactory rewrites the user attributes derived from claims before
// they are written to the user row.
type UserProfileFactory func(defaults user.Defaults, claims keycloak.Claims) user.Defaults

// FactoryLowercase is the name of the built-in factory lowercasing username and email.
const FactoryLowercase = "lowercase"

//nolint:gochecknoglobals
var (
	factoriesMu sync.RWMutex
	factories   = map[string]UserProfileFactory{}
)

func init() { //nolint: gochecknoinits
	RegisterFactory(FactoryLowercase, func(d user.Defaults, _ keycloak.Claims) user.Defaults {
		d.Username = strings.ToLower(d.Username)
		d.Email = strings.ToLower(d.Email)

		return d
	})
}

// RegisterFactory makes a user profile factory available under name.
// Registering under an existing name replaces the previous factory.
func RegisterFactory(name string, f UserProfileFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	if f == nil {
		delete(factories, name)
		return
	}

	factories[name] = f
}

// LookupFactory returns the factory registered under name.
// An empty name yields a nil factory and no error.
func LookupFactory(name string) (UserProfileFactory, error) {
	if name == "" {
		return nil, nil //nolint:nilnil
	}

	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFactory, name)
	}

	return f, nil
}

// Factories returns the registered factory names, sorted.
func Factories() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
