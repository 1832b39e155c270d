package database

import (
	"fmt"
	"net/url"

	"expensetracker/internal/config"
)

const (
	// DriverPostgres selects the PostgreSQL backend.
	DriverPostgres = "postgres"
	// DriverSQLite selects the embedded SQLite backend.
	DriverSQLite = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver         string
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	SQLitePath     string
	MigrationsPath string
}

// NewConfig creates a database configuration from the application configuration.
func NewConfig(app *config.Config) (*Config, error) {
	switch app.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use postgres or sqlite)", app.DBDriver)
	}

	return &Config{
		Driver:         app.DBDriver,
		Host:           app.DBHost,
		Port:           app.DBPort,
		User:           app.DBUser,
		Password:       app.DBPassword,
		DBName:         app.DBName,
		SSLMode:        app.DBSSLMode,
		SQLitePath:     app.SQLitePath,
		MigrationsPath: app.MigrationsPath,
	}, nil
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the postgres:// URL golang-migrate expects.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// SourceURL returns the file:// source of the SQL migrations.
func (c *Config) SourceURL() string {
	return "file://" + c.MigrationsPath
}
