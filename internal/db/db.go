// Package db opens the database connection and applies schema migrations.
package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tracktime/internal/config"
	"tracktime/internal/models"
)

// Connect opens the database described by the DSN: postgres for URL or
// key=value DSNs, a sqlite file otherwise.
func Connect(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	logLevel := logger.Silent
	if config.ParseBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	if IsPostgres(dsn) {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}

// Migrate brings the schema up to date. With MIGRATIONS=1 and a postgres
// DSN the SQL files under migrations/ run via golang-migrate; otherwise
// GORM AutoMigrate covers dev and sqlite setups.
func Migrate(db *gorm.DB, dsn string) error {
	if config.ParseBool("MIGRATIONS", false) {
		if !IsPostgres(dsn) {
			return fmt.Errorf("MIGRATIONS=1 requires a postgres DSN")
		}
		return runSQLMigrations(NormalizeDSN(dsn))
	}
	for _, m := range models.All() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}
