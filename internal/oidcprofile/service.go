package oidcprofile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/db/controller/profile"
	"github.com/kcprofile/kcprofile/internal/db/controller/user"
	"github.com/kcprofile/kcprofile/internal/db/models"
	"github.com/kcprofile/kcprofile/internal/keycloak"
)

const (
	// DefaultUsernameTokenAttribute is the claim used as username when none is configured.
	DefaultUsernameTokenAttribute = "sub"

	// DefaultUsernameField is the user column matched when none is configured.
	DefaultUsernameField = user.FieldUsername
)

// Settings control how claims map onto local rows.
type Settings struct {
	// UsernameTokenAttribute is the claim (dotted path allowed) holding the username.
	UsernameTokenAttribute string
	// UsernameField is the user column the username claim is matched against.
	UsernameField user.LookupField
	// Remote keeps users in Keycloak only: profiles are stored without a local user.
	Remote bool
}

// Service reconciles ID tokens with OIDC profiles and local users.
type Service struct {
	db       *gorm.DB
	settings Settings
	factory  UserProfileFactory
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithFactory sets the user profile factory applied to user attributes.
func WithFactory(f UserProfileFactory) Option {
	return func(s *Service) {
		s.factory = f
	}
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new oidc profile service. Empty settings fall back to
// DefaultUsernameTokenAttribute and DefaultUsernameField.
func NewService(db *gorm.DB, settings Settings, opts ...Option) *Service {
	if settings.UsernameTokenAttribute == "" {
		settings.UsernameTokenAttribute = DefaultUsernameTokenAttribute
	}

	if settings.UsernameField == "" {
		settings.UsernameField = DefaultUsernameField
	}

	s := &Service{
		db:       db,
		settings: settings,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetOrCreateFromIDToken decodes idToken with the realm's certs and issuer and the
// signing algorithms the client supports, then reconciles the claims with local state.
func (s *Service) GetOrCreateFromIDToken(ctx context.Context, c *keycloak.Client, idToken string) (*models.OIDCProfile, error) {
	if idToken == "" {
		return nil, ErrEmptyIDToken
	}

	issuer, err := keycloak.Issuer(c.Realm)
	if err != nil {
		return nil, err
	}

	certs, err := keycloak.Certs(c.Realm)
	if err != nil {
		return nil, err
	}

	claims, err := c.OpenID.DecodeToken(ctx, idToken, keycloak.DecodeOptions{
		Key:        certs,
		Algorithms: c.OpenID.WellKnown().IDTokenSigningAlgValuesSupported,
		Issuer:     issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode id token: %w", err)
	}

	return s.UpdateOrCreateUserAndOIDCProfile(ctx, c, claims)
}

// UpdateOrCreateUserAndOIDCProfile writes claims onto the matching user and
// profile, creating whichever does not exist, and links the two.
func (s *Service) UpdateOrCreateUserAndOIDCProfile(
	ctx context.Context,
	c *keycloak.Client,
	claims keycloak.Claims,
) (*models.OIDCProfile, error) {
	sub := claims.Subject()
	if sub == "" {
		return nil, ErrSubClaimMissing
	}

	if s.settings.Remote {
		return s.updateOrCreateRemote(ctx, c, sub)
	}

	username, err := s.username(claims)
	if err != nil {
		return nil, err
	}

	defaults := user.Defaults{
		Username:  username,
		Email:     claims.String("email"),
		FirstName: claims.String("given_name"),
		LastName:  claims.String("family_name"),
	}

	if s.factory != nil {
		defaults = s.factory(defaults, claims)
	}

	// the factory may normalise the username, later logins must find the row it wrote
	lookup := username
	if defaults.Username != "" {
		lookup = defaults.Username
	}

	var (
		p              *models.OIDCProfile
		userCreated    bool
		profileCreated bool
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, created, txErr := user.UpdateOrCreate(tx, s.settings.UsernameField, lookup, defaults)
		if txErr != nil {
			return fmt.Errorf("failed to update or create user: %w", txErr)
		}

		userCreated = created

		p, created, txErr = profile.UpdateOrCreate(tx, sub, c.Realm.ID, &u.ID)
		if txErr != nil {
			return fmt.Errorf("failed to update or create oidc profile: %w", txErr)
		}

		profileCreated = created

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("sub", sub).Str("realm", c.Realm.Name).Msg("reconciling id token failed")

		return nil, err
	}

	reconciliations.WithLabelValues(outcome(userCreated), outcome(profileCreated)).Inc()

	log.Debug().
		Str("sub", sub).
		Str("username", p.User.Username).
		Str("realm", c.Realm.Name).
		Bool("user_created", userCreated).
		Bool("profile_created", profileCreated).
		Msg("reconciled id token")

	return p, nil
}

func (s *Service) updateOrCreateRemote(ctx context.Context, c *keycloak.Client, sub string) (*models.OIDCProfile, error) {
	p, created, err := profile.UpdateOrCreate(s.db.WithContext(ctx), sub, c.Realm.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update or create oidc profile: %w", err)
	}

	reconciliations.WithLabelValues(outcomeNone, outcome(created)).Inc()

	log.Debug().Str("sub", sub).Str("realm", c.Realm.Name).Bool("profile_created", created).Msg("reconciled remote id token")

	return p, nil
}

// username reads the configured username claim.
func (s *Service) username(claims keycloak.Claims) (string, error) {
	v, ok := claims.Lookup(s.settings.UsernameTokenAttribute)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUsernameClaimMissing, s.settings.UsernameTokenAttribute)
	}

	username, ok := v.(string)
	if !ok || username == "" {
		return "", fmt.Errorf("%w: %s", ErrUsernameClaimMissing, s.settings.UsernameTokenAttribute)
	}

	return username, nil
}
