package main

import (
	"context"
	"flag"
	"log"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database/migration"
	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/database/seeder"
	"skill-swap/migrations"
)

func main() {
	seed := flag.Bool("seed", false, "run seeders after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("migrations need DB_DRIVER=%s, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	res, err := migration.Runner{Source: migrations.FS, Logger: log.Default()}.Run(ctx, db.SQLDB())
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("migrations done | applied=%d skipped=%d", len(res.Applied), res.Skipped)

	if *seed {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: log.Default()}).Run(ctx, db); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	}
}
