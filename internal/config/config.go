package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	SQLitePath     string
	MigrationsPath string

	// Session
	SessionSecret   string
	SessionDuration time.Duration
	SecureCookie    bool

	// CORS
	AllowedOrigins []string
}

const devSessionSecret = "fallback-secret-key-for-dev-only"

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "expenses"),
		DBPassword:     getEnv("DB_PASSWORD", "expenses"),
		DBName:         getEnv("DB_NAME", "expenses"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		SQLitePath:     getEnv("SQLITE_PATH", "expenses.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		// Session
		SessionSecret: getEnv("SESSION_SECRET", devSessionSecret),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	// Parse session expiration duration
	expStr := getEnv("SESSION_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil || expDur <= 0 {
		log.Printf("Warning: invalid SESSION_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.SessionDuration = expDur

	secure, err := strconv.ParseBool(getEnv("SECURE_COOKIE", "false"))
	if err != nil {
		log.Printf("Warning: invalid SECURE_COOKIE value, falling back to false\n")
	}
	config.SecureCookie = secure

	if config.IsProduction() && config.SessionSecret == devSessionSecret {
		return nil, errors.New("SESSION_SECRET must be set in production")
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsProduction reports whether the app runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
