package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Driver pgx/v5 (esquema pgx5://) y fuente de archivos para golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// NewMigrator abre golang-migrate sobre dir (carpeta con *.up.sql / *.down.sql) contra dsn.
// dsn puede venir como postgres:// o postgresql://; se reescribe al esquema del driver pgx5.
func NewMigrator(dsn, dir string) (*migrate.Migrate, error) {
	m, err := migrate.New("file://"+dir, MigrateURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("abrir migraciones: %w", err)
	}
	return m, nil
}

// MigrateUp aplica las migraciones pendientes. Sin cambios no es error.
func MigrateUp(dsn, dir string) error {
	m, err := NewMigrator(dsn, dir)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateURL cambia el esquema postgres(ql):// por pgx5://.
func MigrateURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
