package main

import (
	"context"
	"flag"
	"time"

	"connecty/internal/config"
	"connecty/internal/database/migration"
	dbpostgres "connecty/internal/database/postgres"
	"connecty/internal/database/seeder"
	"connecty/internal/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	migrate := flag.Bool("migrate", true, "apply pending migrations first")
	seed := flag.Bool("seed", true, "insert the demo developers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lg, closer := logger.New(cfg.App, cfg.Log)
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect database")
	}
	defer func() { _ = db.Close() }()

	if *migrate {
		r := migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: lg}
		if err := r.Run(ctx, db.SQLDB()); err != nil {
			lg.Fatal().Err(err).Msg("migrations failed")
		}
	}

	if *seed {
		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: lg}
		if err := r.Run(ctx, db); err != nil {
			lg.Fatal().Err(err).Msg("seeding failed")
		}
	}

	lg.Info().Bool("migrate", *migrate).Bool("seed", *seed).Msg("done")
}
