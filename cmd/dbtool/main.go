package main

import (
	"context"
	"database/sql"
	"flag"

	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logger"
)

// dbtool prepares the local database and, when DATABASE_URL is set, the
// shared Postgres place cache.
func main() {
	reseed := flag.Bool("reseed", false, "replace the original document even if one is stored")
	flag.Parse()

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel); err != nil {
		logger.Fatal("invalid log level", err)
	}

	sqliteDB, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open local database", err)
	}
	defer sqliteDB.Close()

	initAndSeed(sqliteDB, cfg.SeedPath, *reseed)

	if cfg.DatabaseURL != "" {
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open postgres", err)
		}
		defer pg.Close()

		logger.Info("Initializing shared place cache schema...")
		if err := repositories.InitPlaceCacheSchema(pg); err != nil {
			logger.Fatal("place cache schema initialization failed", err)
		}
		logger.Info("Place cache schema ready.")
	}
}

func initAndSeed(sqliteDB *sql.DB, seedPath string, reseed bool) {
	logger.Info("Initializing database schema...")
	if err := repositories.InitSchema(sqliteDB); err != nil {
		logger.Fatal("schema initialization failed", err)
	}
	logger.Info("Schema ready.")

	if !reseed {
		seeded, err := repositories.IsSeeded(context.Background(), sqliteDB)
		if err != nil {
			logger.Fatal("seed check failed", err)
		}
		if seeded {
			logger.Info("Document already seeded, skipping (use -reseed to replace).")
			return
		}
	}

	logger.Info("Seeding document...", map[string]interface{}{"seed": seedPath})
	n, err := repositories.SeedFromJSON(sqliteDB, seedPath)
	if err != nil {
		logger.Fatal("seeding failed", err)
	}
	logger.Info("Seeding complete.", map[string]interface{}{"paragraphs": n})
}
