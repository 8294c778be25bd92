package main

import (
	"context"
	"database/sql"
	"dispatch-planner/internal/adapters/repositories"
	"dispatch-planner/internal/config"
	"dispatch-planner/internal/platform/db"
	"dispatch-planner/internal/platform/obs"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool creates the schema and loads the seed file into the configured database.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	obs.SetLogger(logger)
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Info("no .env file found (using environment variables)")
	}

	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		logger.Fatal("unsupported driver", zap.Error(err))
	}

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer database.Close()

	if err := initAndSeed(ctx, database, dialect, cfg.SeedPath); err != nil {
		logger.Fatal("init and seed", zap.Error(err))
	}
}

func initAndSeed(ctx context.Context, database *sql.DB, dialect repositories.Dialect, seedPath string) (err error) {
	defer obs.Time(ctx, "dbtool.initAndSeed")(&err)
	logger := obs.L()

	logger.Info("initializing database schema", zap.String("driver", string(dialect)))
	if err := repositories.InitSchema(ctx, database); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logger.Info("schema ready")

	logger.Info("seeding database", zap.String("path", seedPath))
	if err := repositories.SeedFromJSON(ctx, database, dialect, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	logger.Info("seeding complete")

	return nil
}
