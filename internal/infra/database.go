package infra

import (
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"costeodcm/internal/model"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// EsPostgres reports whether dsn targets PostgreSQL. Anything else is treated
// as a SQLite file path (or ":memory:").
func EsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// NewDatabase opens a GORM connection. PostgreSQL is the production target;
// SQLite keeps the single-file local mode of the desktop build.
func NewDatabase(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		// Line → item references are weak and history cascades are explicit.
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	if EsPostgres(dsn) {
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		return db, nil
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(dsn)), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer; one connection also keeps ":memory:" a single database.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func sqliteDSN(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_foreign_keys=on&_busy_timeout=5000"
}

// Modelos lists every persisted model, leaves first.
func Modelos() []interface{} {
	return []interface{}{
		&model.Producto{},
		&model.CostoItem{},
		&model.CostoHistorial{},
		&model.Parametro{},
		&model.ListaPrecio{},
		&model.ListaPrecioItem{},
	}
}

// AutoMigrate creates the schema from the models. Used for SQLite and tests;
// PostgreSQL schemas are managed by RunMigrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Modelos()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}

// RunMigrations applies the embedded SQL migrations to a PostgreSQL database.
func RunMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("db", dbErr).Msg("migrate close")
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migrate version: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}

// PrepararEsquema brings the schema up to date for whichever driver dsn uses.
func PrepararEsquema(db *gorm.DB, dsn string, migrations bool) error {
	if EsPostgres(dsn) {
		if !migrations {
			return nil
		}
		return RunMigrations(dsn)
	}
	return AutoMigrate(db)
}
