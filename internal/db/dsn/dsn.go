// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/kcprofile/kcprofile/internal/config"
)

// Create builds the Data Source Name of the configured engine.
func Create(dbCfg *config.DB) string {
	switch dbCfg.GormEngine {
	case config.EnginePostgres:
		return postgres(dbCfg)
	case config.EngineSQLite:
		return sqlite(dbCfg)
	default:
		return mysql(dbCfg)
	}
}

func mysql(dbCfg *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Name,
		dbCfg.Extras,
	)
}

func postgres(dbCfg *config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Name,
	)

	if dbCfg.Extras != "" {
		out += " " + dbCfg.Extras
	}

	return out
}

// sqlite uses Name as the database file. Extras go into the query string.
func sqlite(dbCfg *config.DB) string {
	if dbCfg.Extras == "" {
		return dbCfg.Name
	}

	return dbCfg.Name + "?" + strings.TrimPrefix(dbCfg.Extras, "?")
}
