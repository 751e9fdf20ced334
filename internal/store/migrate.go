package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Init brings the schema up to the latest migration. The store is unusable
// until Init succeeds.
func (s *Store) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, closeSource, err := s.migrator()
	if err != nil {
		return err
	}
	defer closeSource()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	slog.Info("schema ready", "dialect", s.dialect.name, "version", version, "dirty", dirty)
	return nil
}

// MigrateDown rolls back the given number of migrations.
func (s *Store) MigrateDown(ctx context.Context, steps int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, closeSource, err := s.migrator()
	if err != nil {
		return err
	}
	defer closeSource()
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied migration version. ok is false when no
// migration has run yet.
func (s *Store) SchemaVersion(ctx context.Context) (version uint, dirty bool, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return 0, false, false, err
	}
	m, closeSource, err := s.migrator()
	if err != nil {
		return 0, false, false, err
	}
	defer closeSource()
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

// migrator never closes the migrate instance itself: its database driver
// would close the store's shared *sql.DB.
func (s *Store) migrator() (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrationsFS, s.dialect.migrationDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open migrations: %w", err)
	}
	drv, err := s.dialect.migrateDrv(s.db)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, s.dialect.name, drv)
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	return m, func() { _ = src.Close() }, nil
}
