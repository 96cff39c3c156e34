// Package config loads process configuration from flags, an optional file and
// PASSPOLL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PASSPOLL"

// Backend names.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config is the full process configuration.
type Config struct {
	Server   Server         `mapstructure:"server"`
	Log      Log            `mapstructure:"log"`
	Auth     Auth           `mapstructure:"auth"`
	Storage  Storage        `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Poll     PollConfig     `mapstructure:"poll"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Auth configures bearer token verification.
type Auth struct {
	JWTSigningKey string `mapstructure:"jwt_signing_key"`
	JWTIssuer     string `mapstructure:"jwt_issuer"`
	JWTAudience   string `mapstructure:"jwt_audience"`
}

// Storage selects the record store and pass ledger engines.
type Storage struct {
	Store  string `mapstructure:"store"`
	Ledger string `mapstructure:"ledger"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig enables the broker event publisher when Brokers is set.
type KafkaConfig struct {
	Brokers           []string `mapstructure:"brokers"`
	Topic             string   `mapstructure:"topic"`
	Partitions        int32    `mapstructure:"partitions"`
	ReplicationFactor int16    `mapstructure:"replication_factor"`
}

type PollConfig struct {
	TxTimeout        time.Duration `mapstructure:"tx_timeout"`
	BatchConcurrency int           `mapstructure:"batch_concurrency"`
}

// DevSigningKey is only accepted with the in-memory backends.
const DevSigningKey = "dev-secret-key-change-in-production"

// SetDefaults registers every key so AutomaticEnv can resolve it on Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("auth.jwt_signing_key", DevSigningKey)
	v.SetDefault("auth.jwt_issuer", "passpoll")
	v.SetDefault("auth.jwt_audience", "passpoll-api")
	v.SetDefault("storage.store", BackendMemory)
	v.SetDefault("storage.ledger", BackendMemory)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.key_prefix", "passpoll:passes:")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "passpoll.events")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)
	v.SetDefault("poll.tx_timeout", 5*time.Second)
	v.SetDefault("poll.batch_concurrency", 8)
}

// Load reads configuration from v. When configFile is set it is merged in
// before environment variables, which always win.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv loads configuration from the environment only.
func FromEnv() (Config, error) {
	return Load(viper.New(), "")
}

// Validate rejects inconsistent backend combinations.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Store {
	case BackendMemory, BackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.store must be memory or postgres, got %q", c.Storage.Store))
	}
	switch c.Storage.Ledger {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.ledger must be memory, redis or postgres, got %q", c.Storage.Ledger))
	}

	// A vote commits the burn, flag and tally as one unit, so both must share
	// one engine: memory with memory or postgres with postgres. Redis only
	// pairs with the in-memory store, whose shard locks serialize the burn;
	// a burn with a lost reply is settled by its receipt.
	switch {
	case c.Storage.Store == BackendPostgres && c.Storage.Ledger != BackendPostgres:
		errs = append(errs, errors.New("storage.store postgres requires storage.ledger postgres"))
	case c.Storage.Store == BackendMemory && c.Storage.Ledger == BackendPostgres:
		errs = append(errs, errors.New("storage.ledger postgres requires storage.store postgres"))
	}

	if c.UsesPostgres() && c.Postgres.DSN == "" {
		errs = append(errs, errors.New("postgres.dsn is required for the postgres backend"))
	}
	if c.Storage.Ledger == BackendRedis && c.Redis.URL == "" {
		errs = append(errs, errors.New("redis.url is required for the redis ledger"))
	}
	if c.Auth.JWTSigningKey == "" {
		errs = append(errs, errors.New("auth.jwt_signing_key is required"))
	}
	if c.Auth.JWTSigningKey == DevSigningKey && c.UsesPostgres() {
		errs = append(errs, errors.New("auth.jwt_signing_key must be set for persistent deployments"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic is required when kafka.brokers is set"))
	}
	if c.Poll.TxTimeout <= 0 {
		errs = append(errs, errors.New("poll.tx_timeout must be positive"))
	}
	if c.Poll.BatchConcurrency <= 0 {
		errs = append(errs, errors.New("poll.batch_concurrency must be positive"))
	}
	return errors.Join(errs...)
}

// UsesPostgres reports whether either engine needs a database connection.
func (c Config) UsesPostgres() bool {
	return c.Storage.Store == BackendPostgres || c.Storage.Ledger == BackendPostgres
}
