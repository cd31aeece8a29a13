package config

import (
	"errors"
)

var (
	// ErrInvalidConfig is returned when the config violates a field constraint.
	ErrInvalidConfig = errors.New("config field constraint violated")

	// ErrDBHostEmpty error if a networked database engine is configured without host.
	ErrDBHostEmpty = errors.New("toml config db.host can not be empty for mysql and postgres")

	// ErrUnknownEngine error if db.gormengine names no supported driver.
	ErrUnknownEngine = errors.New("unknown gorm engine")
)
