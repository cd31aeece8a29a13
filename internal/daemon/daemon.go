// Package daemon wires configuration, database and Keycloak together into
// the operations the command line exposes.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/glebarez/sqlite"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/config"
	"github.com/kcprofile/kcprofile/internal/db/controller/profile"
	"github.com/kcprofile/kcprofile/internal/db/controller/realm"
	"github.com/kcprofile/kcprofile/internal/db/controller/user"
	"github.com/kcprofile/kcprofile/internal/db/dsn"
	"github.com/kcprofile/kcprofile/internal/db/models"
	"github.com/kcprofile/kcprofile/internal/keycloak"
	"github.com/kcprofile/kcprofile/internal/logger/adapter/gormlogger"
	"github.com/kcprofile/kcprofile/internal/oidcprofile"
)

// ErrConfigNil is returned when New is called without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	profiles   *oidcprofile.Service
	httpClient *http.Client
}

// New creates a new Daemon: it opens the configured database and builds
// the profile service from the Profile settings. The schema is not touched,
// see Migrate.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := Open(&cfg.DB, cfg.Log.SQLLevel)
	if err != nil {
		return nil, err
	}

	return NewWithDB(cfg, db)
}

// NewWithDB creates a Daemon on an already opened database.
func NewWithDB(cfg *config.Config, db *gorm.DB) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	factory, err := oidcprofile.LookupFactory(cfg.Profile.Factory)
	if err != nil {
		return nil, err
	}

	profiles := oidcprofile.NewService(db, oidcprofile.Settings{
		UsernameTokenAttribute: cfg.Profile.UsernameTokenAttribute,
		UsernameField:          user.LookupField(cfg.Profile.UsernameField),
		Remote:                 cfg.Profile.Remote,
	}, oidcprofile.WithFactory(factory))

	return &Daemon{
		cfg:        cfg,
		db:         db,
		profiles:   profiles,
		httpClient: &http.Client{Timeout: cfg.Keycloak.HTTPTimeout},
	}, nil
}

// Open opens the database with the gorm driver of the configured engine.
func Open(dbCfg *config.DB, sqlLevel string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbCfg.GormEngine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(dbCfg))
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(dbCfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(dbCfg))
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEngine, dbCfg.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.New(sqlLevel)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

// DB returns the database handle.
func (d *Daemon) DB() *gorm.DB {
	return d.db
}

// Profiles returns the oidc profile service.
func (d *Daemon) Profiles() *oidcprofile.Service {
	return d.profiles
}

// Migrate migrates the schema and seeds the configured realm and client.
func (d *Daemon) Migrate(ctx context.Context) error {
	db := d.db.WithContext(ctx)

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return seed(db, &d.cfg.Keycloak)
}

// Context returns ctx carrying the HTTP client used for Keycloak requests.
func (d *Daemon) Context(ctx context.Context) context.Context {
	return oidc.ClientContext(ctx, d.httpClient)
}

// Client loads the configured Keycloak client from the database.
func (d *Daemon) Client(ctx context.Context) (*keycloak.Client, error) {
	return keycloak.LoadClient(d.db.WithContext(ctx), d.cfg.Keycloak.Realm, d.cfg.Keycloak.ClientID, d.cfg.Keycloak.Scopes)
}

// RefreshRealm refreshes the stored discovery document and certs of the
// configured realm.
func (d *Daemon) RefreshRealm(ctx context.Context) (*models.Realm, error) {
	db := d.db.WithContext(ctx)

	r, err := realm.Get(db, d.cfg.Keycloak.Realm)
	if err != nil {
		return nil, err
	}

	ctx = d.Context(ctx)

	if err = keycloak.RefreshWellKnownOIDC(ctx, db, r); err != nil {
		return nil, err
	}

	if err = keycloak.RefreshCerts(ctx, db, r); err != nil {
		return nil, err
	}

	return r, nil
}

// SyncIDToken reconciles idToken with the local profile and user.
func (d *Daemon) SyncIDToken(ctx context.Context, idToken string) (*models.OIDCProfile, error) {
	c, err := d.Client(ctx)
	if err != nil {
		return nil, err
	}

	return d.profiles.GetOrCreateFromIDToken(d.Context(ctx), c, idToken)
}

// ExchangeCode exchanges an authorization code and reconciles the result.
func (d *Daemon) ExchangeCode(ctx context.Context, code, redirectURI string) (*models.OIDCProfile, error) {
	c, err := d.Client(ctx)
	if err != nil {
		return nil, err
	}

	return d.profiles.UpdateOrCreateFromCode(d.Context(ctx), c, code, redirectURI)
}

// AccessToken returns the active access token of the profile with sub.
func (d *Daemon) AccessToken(ctx context.Context, sub string) (string, error) {
	c, err := d.Client(ctx)
	if err != nil {
		return "", err
	}

	p, err := profile.GetBySub(d.db.WithContext(ctx), sub)
	if err != nil {
		return "", err
	}

	return d.profiles.GetActiveAccessToken(d.Context(ctx), c, p)
}

// Close closes the underlying database connection pool.
func (d *Daemon) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
