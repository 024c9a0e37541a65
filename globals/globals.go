package globals

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Context keys
type ContextKey string

const SessionIDKey ContextKey = "sessionId"

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "mealseek_session"
)

type Config struct {
	Port string

	MealDBBaseURL     string
	MealDBTimeout     time.Duration
	MealDBRetries     int
	MealDBConcurrency int
	MealDBRPS         float64

	RedisURL      string
	RedisPassword string

	MongoURI      string
	MongoDatabase string

	FavoritesBackend string // file, redis or mongo
	FavoritesPath    string
	FavoritesSlot    string

	DetailCacheTTL   time.Duration
	SearchRatePerMin int
	SessionIdle      time.Duration
	LogLevel         string
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:             env("PORT", ":8080"),
		MealDBBaseURL:    env("MEALDB_BASE_URL", "https://www.themealdb.com/api/json/v1/1"),
		RedisURL:         env("REDIS_URL", ""),
		RedisPassword:    env("REDIS_PASSWORD", ""),
		MongoURI:         env("MONGODB_URI", ""),
		MongoDatabase:    env("MONGODB_DATABASE", "mealseek"),
		FavoritesBackend: strings.ToLower(env("FAVORITES_BACKEND", "file")),
		FavoritesPath:    env("FAVORITES_PATH", "data/favorites.json"),
		FavoritesSlot:    env("FAVORITES_SLOT", "favoriteRecipes"),
		LogLevel:         strings.ToLower(env("LOG_LEVEL", "info")),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}

	var err error
	if cfg.MealDBTimeout, err = time.ParseDuration(env("MEALDB_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("MEALDB_TIMEOUT: %w", err)
	}
	if cfg.MealDBRetries, err = strconv.Atoi(env("MEALDB_RETRIES", "3")); err != nil {
		return Config{}, fmt.Errorf("MEALDB_RETRIES: %w", err)
	}
	if cfg.MealDBConcurrency, err = strconv.Atoi(env("MEALDB_CONCURRENCY", "8")); err != nil {
		return Config{}, fmt.Errorf("MEALDB_CONCURRENCY: %w", err)
	}
	if cfg.MealDBRPS, err = strconv.ParseFloat(env("MEALDB_RPS", "0"), 64); err != nil {
		return Config{}, fmt.Errorf("MEALDB_RPS: %w", err)
	}
	if cfg.DetailCacheTTL, err = time.ParseDuration(env("DETAIL_CACHE_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("DETAIL_CACHE_TTL: %w", err)
	}
	if cfg.SearchRatePerMin, err = strconv.Atoi(env("SEARCH_RATE_PER_MIN", "30")); err != nil {
		return Config{}, fmt.Errorf("SEARCH_RATE_PER_MIN: %w", err)
	}
	if cfg.SessionIdle, err = time.ParseDuration(env("SESSION_IDLE", "30m")); err != nil {
		return Config{}, fmt.Errorf("SESSION_IDLE: %w", err)
	}

	switch cfg.FavoritesBackend {
	case "file", "redis", "mongo":
	default:
		return Config{}, fmt.Errorf("FAVORITES_BACKEND: unknown backend %q", cfg.FavoritesBackend)
	}
	if cfg.FavoritesBackend == "redis" && cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("FAVORITES_BACKEND=redis needs REDIS_URL")
	}
	if cfg.FavoritesBackend == "mongo" && cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("FAVORITES_BACKEND=mongo needs MONGODB_URI")
	}
	return cfg, nil
}
