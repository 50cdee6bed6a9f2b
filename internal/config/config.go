// Package config reads the storefront settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/summary"
	"github.com/shopspring/decimal"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	HTTPPort           string        `env:"HTTP_PORT" envDefault:"8080"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	EventsKeepAlive    time.Duration `env:"EVENTS_KEEPALIVE" envDefault:"15s"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"` // 1MB
	LogMode            string        `env:"LOG_MODE" envDefault:"dev"`

	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"memory"`
	SlotRetention  time.Duration `env:"SLOT_RETENTION" envDefault:"720h"` // 0 keeps slots forever

	SessionIdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	MongoURI            string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase       string        `env:"MONGO_DATABASE" envDefault:"storefront"`
	MongoConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	MongoMaxPoolSize    uint64        `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`

	// Kafka is optional; without brokers updates stay in-process.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	CatalogPath string `env:"CATALOG_PATH" envDefault:"products.yaml"`

	FreeShippingThreshold int64           `env:"FREE_SHIPPING_THRESHOLD" envDefault:"1999"`
	ShippingFee           int64           `env:"SHIPPING_FEE" envDefault:"99"`
	TaxPercent            decimal.Decimal `env:"TAX_PERCENT" envDefault:"5"`

	TrialServiceFee       int64 `env:"TRIAL_SERVICE_FEE" envDefault:"499"`
	TrialDepositPerItem   int64 `env:"TRIAL_DEPOSIT_PER_ITEM" envDefault:"100"`
	TrialSecurityDeposit  int64 `env:"TRIAL_SECURITY_DEPOSIT" envDefault:"1000"`
	TrialKeptItemFallback int64 `env:"TRIAL_KEPT_ITEM_FALLBACK" envDefault:"2500"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.SlotRetention < 0 {
		return fmt.Errorf("slot retention must not be negative")
	}
	if c.SessionIdleTTL <= 0 || c.SessionSweepInterval <= 0 {
		return fmt.Errorf("session idle ttl and sweep interval must be positive")
	}
	if c.TaxPercent.IsNegative() {
		return fmt.Errorf("tax percent must not be negative")
	}
	if c.FreeShippingThreshold < 0 || c.ShippingFee < 0 {
		return fmt.Errorf("shipping settings must not be negative")
	}
	return nil
}

func (c *Config) Policy() pricing.Policy {
	return pricing.Policy{
		FreeShippingThreshold: pricing.Amount(c.FreeShippingThreshold),
		ShippingFee:           pricing.Amount(c.ShippingFee),
		TaxPercent:            c.TaxPercent,
	}
}

func (c *Config) Fees() summary.FeeSchedule {
	return summary.FeeSchedule{
		ServiceFee:       pricing.Amount(c.TrialServiceFee),
		DepositPerItem:   pricing.Amount(c.TrialDepositPerItem),
		SecurityDeposit:  pricing.Amount(c.TrialSecurityDeposit),
		KeptItemFallback: pricing.Amount(c.TrialKeptItemFallback),
	}
}
