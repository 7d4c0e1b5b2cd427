package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"vacationrental/internal/domain/availability"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                   string          `envconfig:"APP_ENV" default:"dev"`
	LogLevel              string          `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr              string          `envconfig:"HTTP_ADDR" default:":8080"`
	HTTPRateLimitRPS      float64         `envconfig:"HTTP_RATE_LIMIT_RPS" default:"0"`
	HTTPRateLimitBurst    int             `envconfig:"HTTP_RATE_LIMIT_BURST" default:"20"`
	ShutdownTimeout       time.Duration   `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	Storage               string          `envconfig:"STORAGE" default:"memory"`
	MongoURI              string          `envconfig:"MONGO_URI"`
	MongoDB               string          `envconfig:"MONGO_DB" default:"vacationrental"`
	KafkaBrokers          []string        `envconfig:"KAFKA_BROKERS"`
	KafkaTopicPrefix      string          `envconfig:"KAFKA_TOPIC_PREFIX"`
	KafkaConsumerGroup    string          `envconfig:"KAFKA_CONSUMER_GROUP"`
	OutboxPollInterval    time.Duration   `envconfig:"OUTBOX_POLL_INTERVAL" default:"500ms"`
	RetryBackoff          []time.Duration `envconfig:"RETRY_BACKOFF" default:"1s,5s,30s"`
	IdempotencyTTL        time.Duration   `envconfig:"IDEMP_TTL" default:"24h"`
	CalendarUnitNumbering string          `envconfig:"CALENDAR_UNIT_NUMBERING" default:"positional"`
	CalendarMaxNights     int             `envconfig:"CALENDAR_MAX_NIGHTS" default:"3660"`
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if cfg.Storage == "" {
		cfg.Storage = StorageMemory
	}
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c Config) Validate() error {
	var problems []error
	switch c.Storage {
	case StorageMemory:
	case StorageMongo:
		if c.MongoURI == "" {
			problems = append(problems, errors.New("MONGO_URI is required when STORAGE=mongo"))
		}
	default:
		problems = append(problems, fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMemory, StorageMongo, c.Storage))
	}
	if _, err := availability.ParseNumbering(c.CalendarUnitNumbering); err != nil {
		problems = append(problems, fmt.Errorf("CALENDAR_UNIT_NUMBERING: %w", err))
	}
	if c.CalendarMaxNights <= 0 {
		problems = append(problems, errors.New("CALENDAR_MAX_NIGHTS must be positive"))
	}
	if c.HTTPRateLimitRPS < 0 {
		problems = append(problems, errors.New("HTTP_RATE_LIMIT_RPS must not be negative"))
	}
	if c.HTTPRateLimitRPS > 0 && c.HTTPRateLimitBurst <= 0 {
		problems = append(problems, errors.New("HTTP_RATE_LIMIT_BURST must be positive when rate limiting is on"))
	}
	if c.OutboxPollInterval <= 0 {
		problems = append(problems, errors.New("OUTBOX_POLL_INTERVAL must be positive"))
	}
	return errors.Join(problems...)
}

// Numbering returns the validated calendar unit numbering.
func (c Config) Numbering() availability.Numbering {
	n, err := availability.ParseNumbering(c.CalendarUnitNumbering)
	if err != nil {
		return availability.NumberingPositional
	}
	return n
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
