package main

import (
	"context"
	"database/sql"
	"dispatch-planner/internal/adapters/publish"
	"dispatch-planner/internal/adapters/repositories"
	"dispatch-planner/internal/api"
	"dispatch-planner/internal/config"
	"dispatch-planner/internal/platform/db"
	"dispatch-planner/internal/platform/metrics"
	"dispatch-planner/internal/platform/obs"
	"dispatch-planner/internal/ports"
	"dispatch-planner/internal/services"
	"dispatch-planner/internal/zones"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (SQL repository, Redis publisher) behind ports and starts the HTTP server.
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

	if err := run(cfg); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := obs.L()

	dialect, err := repositories.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	// Local sqlite runs create and seed their own database on startup.
	if dialect == repositories.DialectSQLite {
		if err := initAndSeed(ctx, database, dialect, cfg.SeedPath); err != nil {
			return err
		}
	}

	table := zones.DefaultPostalTable()
	if cfg.ZoneTablePath != "" {
		if table, err = zones.LoadPostalTable(cfg.ZoneTablePath); err != nil {
			return err
		}
		logger.Info("loaded zone table", zap.String("path", cfg.ZoneTablePath), zap.Int("ranges", len(table.Ranges)))
	}

	m := metrics.RegisterDefault()
	optimizer := services.NewOptimizer(cfg.Depot,
		services.WithClassifier(zones.NewDefaultClassifier(cfg.Depot, table)),
		services.WithTimeout(cfg.OptimizeTimeout),
		services.WithMetrics(m),
	)

	var publisher ports.PlanPublisher = publish.NoopPublisher{}
	if cfg.RedisURL != "" {
		rp, err := publish.NewRedisPlanPublisher(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rp.Close()

		if err := rp.Ping(ctx); err != nil {
			logger.Warn("redis unreachable at startup; publishing will retry per plan", zap.Error(err))
		}
		publisher = rp
	}

	var limiter *rate.Limiter
	if cfg.RateRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)
	}

	router := api.NewRouter(api.Deps{
		Repo:      repositories.NewSQLDispatchRepository(database, dialect),
		Optimizer: optimizer,
		Publisher: publisher,
		Metrics:   m,
		Limiter:   limiter,
	})

	// Write timeout leaves room for a full optimization run.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.OptimizeTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("db_driver", cfg.DBDriver),
			zap.Float64("depot_lat", cfg.Depot.Lat),
			zap.Float64("depot_lon", cfg.Depot.Lon),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func initAndSeed(ctx context.Context, database *sql.DB, dialect repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, database); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		obs.L().Info("no seed file; starting with existing data", zap.String("path", seedPath))
		return nil
	}
	if err := repositories.SeedFromJSON(ctx, database, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
