package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
	Ordering  OrderingConfig
	Linnworks LinnworksConfig
	Webhook   WebhookConfig
	Sync      SyncConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN returns the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres connection URL used by the migration tool
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings. Redis is optional: when no
// host is configured the ERP token cache falls back to process memory.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled reports whether a Redis host is configured
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns the host:port address for the Redis client
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// JWTConfig holds settings for verifying administrative bearer tokens.
// Session issuance lives in the portal's auth service; this backend only
// verifies.
type JWTConfig struct {
	Secret string
	Issuer string
}

// OrderUnits controls whether quantities must be whole cases
type OrderUnits = string

const (
	// OrderUnitsCasesOnly requires quantities to be exact multiples of the
	// SKU pack size
	OrderUnitsCasesOnly = "CASES_ONLY"
	// OrderUnitsEachesAllowed permits any positive quantity
	OrderUnitsEachesAllowed = "EACHES_ALLOWED"
)

// TaxMode controls whether prices are VAT-inclusive
type TaxMode = string

const (
	TaxModeInclusive = "INCLUSIVE"
	TaxModeExclusive = "EXCLUSIVE"
)

// OrderingConfig holds order validation and pricing policy
type OrderingConfig struct {
	MinimumOrderValue float64
	OrderUnits        OrderUnits
	TaxMode           TaxMode
	Currency          string
	RefPrefix         string
}

// LinnworksConfig holds ERP credentials and client behavior
type LinnworksConfig struct {
	AppID        string
	AppSecret    string
	InstallToken string
	AuthURL      string
	Timeout      time.Duration
	TokenTTL     time.Duration
	// Mocked forces the offline client even when credentials are present
	Mocked bool
}

// HasCredentials reports whether all three ERP credentials are set
func (c *LinnworksConfig) HasCredentials() bool {
	return c.AppID != "" && c.AppSecret != "" && c.InstallToken != ""
}

// UseMock reports whether the offline client should be used. The mock is
// selected once at process start, never by runtime type inspection.
func (c *LinnworksConfig) UseMock() bool {
	return c.Mocked || !c.HasCredentials()
}

// WebhookConfig holds the shared secret protecting the ERP webhook endpoint
type WebhookConfig struct {
	Secret string
}

// SyncConfig holds the reconciliation trigger settings
type SyncConfig struct {
	Secret string
	// Enabled starts the in-process interval trigger; the POST /sync
	// endpoint works regardless.
	Enabled  bool
	Interval time.Duration
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with PORTAL_ prefix (e.g. PORTAL_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Ordering: OrderingConfig{
			MinimumOrderValue: v.GetFloat64("ordering.minimum_order_value"),
			OrderUnits:        v.GetString("ordering.order_units"),
			TaxMode:           v.GetString("ordering.tax_mode"),
			Currency:          v.GetString("ordering.currency"),
			RefPrefix:         v.GetString("ordering.ref_prefix"),
		},
		Linnworks: LinnworksConfig{
			AppID:        v.GetString("linnworks.app_id"),
			AppSecret:    v.GetString("linnworks.app_secret"),
			InstallToken: v.GetString("linnworks.install_token"),
			AuthURL:      v.GetString("linnworks.auth_url"),
			Timeout:      v.GetDuration("linnworks.timeout"),
			TokenTTL:     v.GetDuration("linnworks.token_ttl"),
			Mocked:       v.GetBool("linnworks.mocked"),
		},
		Webhook: WebhookConfig{
			Secret: v.GetString("webhook.secret"),
		},
		Sync: SyncConfig{
			Secret:   v.GetString("sync.secret"),
			Enabled:  v.GetBool("sync.enabled"),
			Interval: v.GetDuration("sync.interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "retail-portal-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "portal"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 10
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Ordering.MinimumOrderValue == 0 {
		cfg.Ordering.MinimumOrderValue = 250
	}
	if cfg.Ordering.OrderUnits == "" {
		cfg.Ordering.OrderUnits = OrderUnitsCasesOnly
	}
	if cfg.Ordering.TaxMode == "" {
		cfg.Ordering.TaxMode = TaxModeInclusive
	}
	if cfg.Ordering.Currency == "" {
		cfg.Ordering.Currency = "GBP"
	}
	if cfg.Ordering.RefPrefix == "" {
		cfg.Ordering.RefPrefix = "RP"
	}
	if cfg.Linnworks.AuthURL == "" {
		cfg.Linnworks.AuthURL = "https://api.linnworks.net/api/Auth/AuthorizeByApplication"
	}
	if cfg.Linnworks.Timeout == 0 {
		cfg.Linnworks.Timeout = 30 * time.Second
	}
	if cfg.Linnworks.TokenTTL == 0 {
		// Conservatively shorter than the real token lifetime
		cfg.Linnworks.TokenTTL = 55 * time.Minute
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 15 * time.Minute
	}
}

// validate checks configuration consistency
func (cfg *Config) validate() error {
	switch cfg.Ordering.OrderUnits {
	case OrderUnitsCasesOnly, OrderUnitsEachesAllowed:
	default:
		return fmt.Errorf("invalid ordering.order_units: %s", cfg.Ordering.OrderUnits)
	}
	switch cfg.Ordering.TaxMode {
	case TaxModeInclusive, TaxModeExclusive:
	default:
		return fmt.Errorf("invalid ordering.tax_mode: %s", cfg.Ordering.TaxMode)
	}
	if cfg.Ordering.MinimumOrderValue < 0 {
		return fmt.Errorf("ordering.minimum_order_value cannot be negative")
	}
	if cfg.App.Env == "production" {
		if cfg.Webhook.Secret == "" {
			return fmt.Errorf("webhook.secret is required in production")
		}
		if cfg.Sync.Secret == "" {
			return fmt.Errorf("sync.secret is required in production")
		}
		if cfg.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
	}
	return nil
}
