package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// PostgresConfig holds the connection settings for the events database.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"test"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"test"`
	Database string `env:"POSTGRES_DB" envDefault:"eventstore"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// LoadPostgresConfig reads the Postgres settings from the environment.
func LoadPostgresConfig() (PostgresConfig, error) {
	var cfg PostgresConfig
	if err := env.Parse(&cfg); err != nil {
		return PostgresConfig{}, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	return cfg, nil
}

// DSN returns the connection string for this configuration.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}
