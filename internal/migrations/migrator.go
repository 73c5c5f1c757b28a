package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Migrator applies the embedded PostgreSQL schema.
type Migrator struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewMigrator creates a migrator borrowing connections from pool.
func NewMigrator(pool *pgxpool.Pool, logger *zap.Logger) *Migrator {
	return &Migrator{
		pool:   pool,
		logger: logger,
	}
}

// Up applies every pending migration.
func (m *Migrator) Up() error {
	instance, err := m.instance()
	if err != nil {
		return err
	}
	defer m.close(instance)

	err = instance.Up()

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		m.logger.Info("schema is up to date")
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	default:
		m.logger.Info("migrations applied")
	}

	return nil
}

// Version reports the current schema version and whether it is dirty.
func (m *Migrator) Version() (uint, bool, error) {
	instance, err := m.instance()
	if err != nil {
		return 0, false, err
	}
	defer m.close(instance)

	version, dirty, err := instance.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return version, dirty, err
}

func (m *Migrator) instance() (*migrate.Migrate, error) {
	source, err := iofs.New(schemaFiles, "schema")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	// Closing the driver closes db; the pool itself stays open.
	db := stdlib.OpenDBFromPool(m.pool)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = source.Close()
		_ = db.Close()

		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()

		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return instance, nil
}

func (m *Migrator) close(instance *migrate.Migrate) {
	srcErr, dbErr := instance.Close()
	if srcErr != nil || dbErr != nil {
		m.logger.Warn("close migrate instance", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
	}
}
