package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the shipment repository: "postgres" or "mongo".
	StoreDriver string `env:"STORE_DRIVER, default=postgres"`
	// Timezone is the zone date-range queries are interpreted in.
	Timezone string `env:"TIMEZONE, default=America/Argentina/Buenos_Aires"`

	CreateMaxAttempts int `env:"CREATE_MAX_ATTEMPTS, default=5"`
	DispatchWorkers   int `env:"DISPATCH_WORKERS,    default=8"`

	DB      PostgresConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Breaker BreakerConfig
}

type PostgresConfig struct {
	Host            string        `env:"DB_HOST,              default=localhost"`
	Port            int           `env:"DB_PORT,              default=5432"`
	User            string        `env:"DB_USER,              default=postgres"`
	Password        string        `env:"DB_PASSWORD,          default=postgres"`
	Name            string        `env:"DB_NAME,              default=shipping_tracker"`
	SSLMode         string        `env:"DB_SSLMODE,           default=disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=10"`
	MinIdleConns    int           `env:"DB_MIN_IDLE_CONNS,    default=1"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=5m"`
}

// DSN builds the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=shipping_tracker"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=20"`
	MinPoolSize uint64 `env:"MONGO_MIN_POOL_SIZE, default=0"`
}

type RedisConfig struct {
	// Addr empty disables the idempotency store.
	Addr           string        `env:"REDIS_ADDR"`
	DB             int           `env:"REDIS_DB,              default=0"`
	PoolSize       int           `env:"REDIS_POOL_SIZE,       default=10"`
	Timeout        time.Duration `env:"REDIS_TIMEOUT,         default=1s"`
	IdempotencyTTL time.Duration `env:"REDIS_IDEMPOTENCY_TTL, default=24h"`
}

type BreakerConfig struct {
	// FailureThreshold consecutive infrastructure failures open the breaker.
	FailureThreshold uint32        `env:"BREAKER_FAILURE_THRESHOLD, default=5"`
	OpenTimeout      time.Duration `env:"BREAKER_OPEN_TIMEOUT,      default=30s"`
	HalfOpenRequests uint32        `env:"BREAKER_HALF_OPEN_REQUESTS, default=1"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q (want %q or %q)", c.StoreDriver, DriverPostgres, DriverMongo)
	}
	if c.CreateMaxAttempts < 1 {
		return fmt.Errorf("config: CREATE_MAX_ATTEMPTS must be at least 1, got %d", c.CreateMaxAttempts)
	}
	if c.DB.MaxOpenConns < 1 {
		return fmt.Errorf("config: DB_MAX_OPEN_CONNS must be at least 1, got %d", c.DB.MaxOpenConns)
	}
	if c.DB.MinIdleConns > c.DB.MaxOpenConns {
		return fmt.Errorf("config: DB_MIN_IDLE_CONNS (%d) exceeds DB_MAX_OPEN_CONNS (%d)", c.DB.MinIdleConns, c.DB.MaxOpenConns)
	}
	if c.Mongo.MaxPoolSize > 0 && c.Mongo.MinPoolSize > c.Mongo.MaxPoolSize {
		return fmt.Errorf("config: MONGO_MIN_POOL_SIZE (%d) exceeds MONGO_MAX_POOL_SIZE (%d)", c.Mongo.MinPoolSize, c.Mongo.MaxPoolSize)
	}
	return nil
}
