package config // package config loads application configuration from environment variables

import (
	"log/slog"
	"os"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Database credentials are required.  The
// Redis settings live in their own loaders (redis.go, cache.go,
// ratelimit.go) and the RabbitMQ address is resolved by the publisher;
// both integrations degrade gracefully when unset.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	AutoMigrate bool   // run embedded schema migrations on startup
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must(); missing values
// cause the program to exit.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		AutoMigrate: getenv("DB_AUTOMIGRATE", "true") == "true",
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		slog.Error("missing required env var", "key", key)
		os.Exit(1)
	}
	return v
}
