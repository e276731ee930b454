package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, loaded from the environment with
// an optional .env file for local development.
type Config struct {
	ListenAddr string
	APIToken   string

	DB    DBConfig
	Redis RedisConfig

	BalanceCacheTTL time.Duration
	SeedDemoUsers   bool
	Environment     string
}

// DBConfig holds the PostgreSQL connection settings
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ConnString builds a lib/pq connection string
func (c DBConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		APIToken:   getenv("API_TOKEN", "dev-token"),
		DB: DBConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			Name:     getenv("DB_NAME", "splitledger"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: getenv("REDIS_PASSWORD", ""),
		},
		Environment: getenv("APP_ENV", "local"),
	}

	redisDB, err := strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.Redis.DB = redisDB

	// 0 stores balance entries without expiry; invalidation on write is
	// the primary coherence mechanism.
	ttl, err := time.ParseDuration(getenv("BALANCE_CACHE_TTL", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid BALANCE_CACHE_TTL: %w", err)
	}
	cfg.BalanceCacheTTL = ttl

	seed, err := strconv.ParseBool(getenv("SEED_DEMO_USERS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO_USERS: %w", err)
	}
	cfg.SeedDemoUsers = seed

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
