package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/jhoicas/eggpro-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/eggpro-erp/pkg/config"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

// Uso:
//
//	go run ./cmd/migrate               aplica todo lo pendiente
//	go run ./cmd/migrate -steps -1     revierte una migración
//	go run ./cmd/migrate -version      muestra la versión actual
func main() {
	dir := flag.String("dir", "migrations", "carpeta con los archivos .sql")
	steps := flag.Int("steps", 0, "aplica n migraciones (negativo revierte); 0 = todas las pendientes")
	showVersion := flag.Bool("version", false, "sólo muestra la versión aplicada")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), *dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("migraciones")
	}
	defer m.Close()

	if !*showVersion {
		if *steps != 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Error().Err(err).Int("steps", *steps).Msg("migración fallida")
			os.Exit(1)
		}
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Error().Err(err).Msg("leer versión")
		os.Exit(1)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("esquema al día")
}
