// Package config builds the runtime configuration for the demo application
// and for integration tests: Postgres connections through the three supported
// adapters (pgx pool, database/sql, sqlx) and the kafka transport settings.
// All values come from the environment with sensible local defaults.
package config
