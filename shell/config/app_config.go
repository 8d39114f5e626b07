package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage engine selection for the demo application.
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
)

// AppConfig holds the runtime settings of the demo application.
//
// The defaults run everything in process: in-memory event store, in-memory
// bus, no kafka. Setting EVENTSTORE_ENGINE=postgres switches persistence to
// the Postgres engine; setting KAFKA_BROKERS additionally mirrors committed
// events onto the configured topic.
type AppConfig struct {
	EventStoreEngine string   `env:"EVENTSTORE_ENGINE" envDefault:"memory"`
	EventsTableName  string   `env:"EVENTS_TABLE_NAME" envDefault:"events"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic       string   `env:"KAFKA_TOPIC" envDefault:"conference-booking-events"`
	KafkaGroupID     string   `env:"KAFKA_GROUP_ID" envDefault:"conference-booking"`
}

// LoadAppConfig reads the application settings from the environment.
func LoadAppConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to parse app config: %w", err)
	}

	if cfg.EventStoreEngine != EngineMemory && cfg.EventStoreEngine != EnginePostgres {
		return AppConfig{}, fmt.Errorf("unknown event store engine %q", cfg.EventStoreEngine)
	}

	return cfg, nil
}

// KafkaEnabled reports whether a kafka transport is configured.
func (c AppConfig) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
