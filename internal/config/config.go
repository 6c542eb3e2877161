// Package config holds the search service configuration, loaded from
// environment variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/plazakit/searchsvc/pkg/config"
	"github.com/plazakit/searchsvc/pkg/database"
)

// Config holds all configuration for the search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SEARCH_HTTP_PORT" envDefault:"8010"`

	// Elasticsearch
	ElasticsearchURL string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	IndexPrefix      string `env:"ELASTICSEARCH_INDEX_PREFIX" envDefault:"plaza"`

	// Catalog service URL for the full-reindex export fetch
	CatalogServiceURL string `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:8080"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"search-service"`

	// PostgreSQL (brand master data lookup)
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"plaza"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"plaza_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"plaza"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis (term suggestion cache)
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	TermCacheTTL  time.Duration `env:"TERM_CACHE_TTL" envDefault:"30s"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.IndexPrefix == "" {
		return fmt.Errorf("index prefix must not be empty")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("at least one kafka broker is required")
	}
	return nil
}

// Redis assembles the connection configuration for the term cache.
func (c *Config) Redis() database.RedisConfig {
	rd := database.DefaultRedisConfig()
	rd.Host = c.RedisHost
	rd.Port = c.RedisPort
	rd.Password = c.RedisPassword
	rd.DB = c.RedisDB
	return rd
}

// Postgres assembles the connection pool configuration for the brand store.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	return pg
}
