package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"log"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	Env          string        `mapstructure:"env"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SchedulerConfig struct {
	StatusRefreshSpec string `mapstructure:"status_refresh_spec"`
	ReminderSpec      string `mapstructure:"reminder_spec"`
	Timezone          string `mapstructure:"timezone"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type BusinessConfig struct {
	DefaultCurrency   string        `mapstructure:"default_currency"`
	DefaultPaymentDay int           `mapstructure:"default_payment_day"`
	UpcomingDays      int           `mapstructure:"upcoming_days"`
	ReminderDaysAhead int           `mapstructure:"reminder_days_ahead"`
	SummaryCacheTTL   time.Duration `mapstructure:"summary_cache_ttl"`
}

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from environment variables and an optional .env file.
// Keys map to env vars by upper-casing and replacing dots, e.g. server.port is SERVER_PORT.
func Load() (*Config, error) {
	// Don't fail if .env files don't exist; already set env vars win
	_ = godotenv.Load(".env")
	_ = godotenv.Load("./deployments/.env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Every key needs a default so AutomaticEnv can resolve it during Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "loan_tracker")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("scheduler.status_refresh_spec", "0 0 0 * * *")
	v.SetDefault("scheduler.reminder_spec", "0 0 9 * * *")
	v.SetDefault("scheduler.timezone", "UTC")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("business.default_currency", "IRR")
	v.SetDefault("business.default_payment_day", 1)
	v.SetDefault("business.upcoming_days", 30)
	v.SetDefault("business.reminder_days_ahead", 3)
	v.SetDefault("business.summary_cache_ttl", "10m")

	v.SetDefault("health.timeout", "5s")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	if c.Business.DefaultPaymentDay < 1 || c.Business.DefaultPaymentDay > 31 {
		return fmt.Errorf("BUSINESS_DEFAULT_PAYMENT_DAY must be between 1 and 31")
	}

	if c.Business.UpcomingDays <= 0 {
		return fmt.Errorf("BUSINESS_UPCOMING_DAYS must be greater than 0")
	}

	if c.Business.ReminderDaysAhead <= 0 {
		return fmt.Errorf("BUSINESS_REMINDER_DAYS_AHEAD must be greater than 0")
	}

	if len(c.Business.DefaultCurrency) != 3 {
		return fmt.Errorf("BUSINESS_DEFAULT_CURRENCY must be a 3 letter code")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA zone: %w", err)
	}

	if c.Health.Timeout <= 0 {
		return fmt.Errorf("HEALTH_TIMEOUT must be a positive duration")
	}

	return nil
}

// DSN returns the Postgres connection string, preferring DATABASE_URL
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// Addr returns the Redis host:port address
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// LogSettings returns the logging config for the current environment.
// Production always logs JSON and development always logs text.
func (c *Config) LogSettings() LoggingConfig {
	settings := c.Logging
	switch {
	case c.IsProduction():
		settings.Format = "json"
	case c.IsDevelopment():
		settings.Format = "text"
	}
	return settings
}

// Location returns the scheduler time zone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
