package config

import (
	"time"

	"github.com/kcprofile/kcprofile/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode  bool // enable dev mode for development
	DB       DB
	Log      logger.Log
	Keycloak Keycloak
	Profile  Profile
}

// Keycloak holds the realm and client this application is registered as.
type Keycloak struct {
	ServerURL    string        `validate:"required,url"` // base url of the keycloak server, without /realms
	Realm        string        `validate:"required"`     // realm name
	ClientID     string        `validate:"required"`     // oauth2 client id
	ClientSecret string        // oauth2 client secret, empty for public clients
	Scopes       []string      // scopes requested on code exchange
	HTTPTimeout  time.Duration // timeout of requests against keycloak
}

// Profile controls how ID token claims map onto local users.
type Profile struct {
	UsernameTokenAttribute string `validate:"required"`                      // claim holding the username, dotted paths allowed
	UsernameField          string `validate:"required,oneof=username email"` // user column matched against the claim
	Factory                string // name of a registered user profile factory
	Remote                 bool   // keep users in keycloak only, no local user rows
}
