// Package config reads process settings from the environment.
// Mains call godotenv.Load first so a local .env file can supply values.
package config

import (
	"dispatch-planner/internal/domain"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	DBDriver        string
	DatabaseURL     string
	SeedPath        string
	Depot           domain.Coordinates
	ZoneTablePath   string
	OptimizeTimeout time.Duration
	RedisURL        string
	RateRPS         float64
	RateBurst       int
	LogLevel        string
}

// Get returns the value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: parse int %q: %w", key, v, err)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: parse float %q: %w", key, v, err)
	}
	return f, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: parse duration %q: %w", key, v, err)
	}
	return d, nil
}

// Load reads the full configuration. Unset values take defaults suited to a
// local sqlite run; malformed numeric values are errors.
func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "8080"),
		DBDriver:      Get("DB_DRIVER", "sqlite"),
		SeedPath:      Get("SEED_PATH", "data/seeds/dispatch.json"),
		ZoneTablePath: Get("ZONE_TABLE_PATH", ""),
		RedisURL:      Get("REDIS_URL", ""),
		LogLevel:      Get("LOG_LEVEL", "info"),
	}

	switch cfg.DBDriver {
	case "sqlite":
		cfg.DatabaseURL = Get("DATABASE_URL", "data/app.db")
	case "pgx":
		cfg.DatabaseURL = Get("DATABASE_URL", "")
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("config: DATABASE_URL is required for driver pgx")
		}
	default:
		return Config{}, fmt.Errorf("config: DB_DRIVER: unsupported driver %q (want sqlite or pgx)", cfg.DBDriver)
	}

	var err error
	if cfg.Depot.Lat, err = GetFloat("DEPOT_LAT", domain.DefaultDepot.Lat); err != nil {
		return Config{}, err
	}
	if cfg.Depot.Lon, err = GetFloat("DEPOT_LON", domain.DefaultDepot.Lon); err != nil {
		return Config{}, err
	}
	if cfg.Depot.Lat < -90 || cfg.Depot.Lat > 90 || cfg.Depot.Lon < -180 || cfg.Depot.Lon > 180 {
		return Config{}, fmt.Errorf("config: depot out of range: %+v", cfg.Depot)
	}

	if cfg.OptimizeTimeout, err = GetDuration("OPTIMIZE_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RateRPS, err = GetFloat("RATE_RPS", 20); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = GetInt("RATE_BURST", 40); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
