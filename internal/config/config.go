// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment variables overriding single config keys (KCPROFILE_DB_HOST).
	EnvPrefix = "KCPROFILE"

	// EnvConfigJSON names the environment variable holding a JSON config override.
	EnvConfigJSON = "KCPROFILE_CONFIG_JSON"

	mainConfigFile = "main.toml"
	dotEnvFile     = ".env"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	if err = loadDotEnv(); err != nil {
		return Config{}, err
	}

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, mainConfigFile))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		if err = mergeJSONConfig(v, JSONConfigEnv); err != nil {
			return Config{}, err
		}
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

// loadDotEnv loads ./.env into the process environment if the file exists.
// Variables already set are not overridden.
func loadDotEnv() error {
	if _, err := os.Stat(dotEnvFile); err != nil {
		return nil //nolint:nilerr // a missing .env is fine
	}

	return errors.Wrap(godotenv.Load(dotEnvFile), "failed to load .env file")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.gormengine", EngineSQLite)
	v.SetDefault("db.name", "kcprofile.db")
	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "kcprofile")
	v.SetDefault("log.servicename", "kcprofile")
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("keycloak.scopes", []string{"openid", "profile", "email"})
	v.SetDefault("keycloak.httptimeout", 10*time.Second) //nolint:mnd
	v.SetDefault("profile.usernametokenattribute", "sub")
	v.SetDefault("profile.usernamefield", "username")
}

// mergeJSONConfig sets every leaf of the JSON document on v, above file and
// env values. Leaves decode like TOML values, so durations may be "10s".
func mergeJSONConfig(v *viper.Viper, configAsJSON string) error {
	var override map[string]any

	if err := json.Unmarshal([]byte(configAsJSON), &override); err != nil {
		return errors.Wrap(err, "failed to read json config override")
	}

	setAll(v, "", override)

	return nil
}

func setAll(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		if sub, ok := val.(map[string]any); ok {
			setAll(v, key, sub)
			continue
		}

		v.Set(key, val)
	}
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the struct tags of the config and the settings
// the tags can not express.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.Wrap(ErrInvalidConfig, err.Error()), invalidErrMessage)
	}

	if c.DB.GormEngine != EngineSQLite && c.DB.Host == "" {
		return errors.Wrap(ErrDBHostEmpty, invalidErrMessage)
	}

	if c.Keycloak.HTTPTimeout == 0 {
		c.Keycloak.HTTPTimeout = 10 * time.Second //nolint:mnd // set default of 10 seconds
	}

	return nil
}
