package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App            AppConfig            `envconfig:"APP"`
	HttpServer     HttpServerConfig     `envconfig:"HTTP_SERVER"`
	Database       DatabaseConfig       `envconfig:"DATABASE"`
	Redis          RedisConfig          `envconfig:"REDIS"`
	HttpClient     HttpClientConfig     `envconfig:"HTTP_CLIENT"`
	MessageStream  MessageStreamConfig  `envconfig:"MESSAGE_STREAM"`
	Gateway        GatewayConfig        `envconfig:"GATEWAY"`
	CatalogService CatalogServiceConfig `envconfig:"CATALOG_SERVICE"`
	Booking        BookingConfig        `envconfig:"BOOKING"`
	Scheduler      SchedulerConfig      `envconfig:"SCHEDULER"`
}

type AppConfig struct {
	Name          string `envconfig:"NAME" default:"rental-service"`
	Env           string `envconfig:"ENV" default:"development"`
	InternalToken string `envconfig:"INTERNAL_TOKEN" required:"true"`
}

type HttpServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            string        `envconfig:"PORT" default:"5432"`
	User            string        `envconfig:"USER" default:"postgres"`
	Password        string        `envconfig:"PASSWORD"`
	Name            string        `envconfig:"NAME" default:"rental"`
	SSLMode         string        `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"5m"`
}

type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

type HttpClientConfig struct {
	// Type selects the breaker: consecutive, threshold or rate.
	Type             string        `envconfig:"TYPE" default:"consecutive"`
	Timeout          time.Duration `envconfig:"TIMEOUT" default:"10s"`
	ConsecutiveTrips int64         `envconfig:"CONSECUTIVE_TRIPS" default:"5"`
	Threshold        int64         `envconfig:"THRESHOLD" default:"10"`
	Rate             float64       `envconfig:"RATE" default:"0.5"`
	MinSamples       int64         `envconfig:"MIN_SAMPLES" default:"20"`
}

type MessageStreamConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5672"`
	Username string `envconfig:"USERNAME" default:"guest"`
	Password string `envconfig:"PASSWORD" default:"guest"`
}

type GatewayConfig struct {
	BaseURL  string        `envconfig:"BASE_URL" required:"true"`
	Username string        `envconfig:"USERNAME" required:"true"`
	Password string        `envconfig:"PASSWORD" required:"true"`
	Currency string        `envconfig:"CURRENCY" default:"978"`
	Language string        `envconfig:"LANGUAGE" default:"en"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

type CatalogServiceConfig struct {
	Host     string        `envconfig:"HOST" default:"localhost"`
	Port     string        `envconfig:"PORT" default:"8081"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

type BookingConfig struct {
	OrderPrefix         string        `envconfig:"ORDER_PREFIX" default:"K"`
	InvoicePrefix       string        `envconfig:"INVOICE_PREFIX" default:"P"`
	Currency            string        `envconfig:"CURRENCY" default:"EUR"`
	MaxPrice            float64       `envconfig:"MAX_PRICE" default:"100000"`
	MaxDuration         time.Duration `envconfig:"MAX_DURATION" default:"2160h"`
	VerificationDelay   time.Duration `envconfig:"VERIFICATION_DELAY" default:"30m"`
	VerificationLockTTL time.Duration `envconfig:"VERIFICATION_LOCK_TTL" default:"30s"`
}

type SchedulerConfig struct {
	Concurrency    int    `envconfig:"CONCURRENCY" default:"10"`
	MonitoringPort string `envconfig:"MONITORING_PORT" default:"8090"`
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func InitConfig() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("error load config: %v", err)
	}
	return &cfg
}
