package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"agroclima.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server    ServerConfig    `split_words:"true"`
	Database  DatabaseConfig  `split_words:"true"`
	Geocoding GeocodingConfig `split_words:"true"`
	Forecast  ForecastConfig  `split_words:"true"`
	Sync      SyncConfig      `split_words:"true"`
	Scheduler SchedulerConfig `split_words:"true"`
	Cache     CacheConfig     `split_words:"true"`
	Events    EventsConfig    `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"agroclima"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted database connection string
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GeocodingConfig contains settings for the geocoding provider
type GeocodingConfig struct {
	BaseURL        string `envconfig:"GEOCODING_BASE_URL" default:"https://geocoding-api.open-meteo.com/v1"`
	Language       string `envconfig:"GEOCODING_LANGUAGE" default:"pt"`
	TimeoutSeconds int    `envconfig:"GEOCODING_TIMEOUT_SECONDS" default:"10"`
}

// ForecastConfig contains settings for the weather forecast provider
type ForecastConfig struct {
	BaseURL        string `envconfig:"FORECAST_BASE_URL" default:"https://api.open-meteo.com/v1"`
	Timezone       string `envconfig:"FORECAST_TIMEZONE" default:"America/Sao_Paulo"`
	Days           int    `envconfig:"FORECAST_DAYS" default:"7"`
	TimeoutSeconds int    `envconfig:"FORECAST_TIMEOUT_SECONDS" default:"10"`
}

// SyncConfig contains settings for the climate sync trigger surfaces
type SyncConfig struct {
	SharedSecret   string `envconfig:"SYNC_SHARED_SECRET" required:"true"`
	CronHeaderName string `envconfig:"SYNC_CRON_HEADER" default:"X-Cron-Trigger"`
	ThrottleMs     int    `envconfig:"SYNC_THROTTLE_MS" default:"100"`
}

// SchedulerConfig contains settings for the background sync scheduler
type SchedulerConfig struct {
	Enabled         bool `envconfig:"SCHEDULER_ENABLED" default:"true"`
	IntervalMinutes int  `envconfig:"SCHEDULER_INTERVAL" default:"1440"`
}

// CacheConfig contains settings for the geocoding result cache
type CacheConfig struct {
	Type          string `envconfig:"CACHE_TYPE" default:"memory"`
	RedisAddr     string `envconfig:"CACHE_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"CACHE_REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"CACHE_REDIS_DB" default:"0"`
	TTLMinutes    int    `envconfig:"CACHE_TTL_MINUTES" default:"1440"`
}

// EventsConfig contains settings for the snapshot event publisher
type EventsConfig struct {
	Enabled bool     `envconfig:"EVENTS_ENABLED" default:"false"`
	Brokers []string `envconfig:"EVENTS_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"EVENTS_TOPIC" default:"climate.snapshots"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Geocoding.Validate(); err != nil {
		return err
	}
	if err := c.Forecast.Validate(); err != nil {
		return err
	}
	if err := c.Sync.Validate(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// ValidateSSLMode validates the SSL mode configuration
func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

// Validate checks database configuration
func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > 65535 {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	if err := d.ValidateSSLMode(); err != nil {
		return err
	}
	return nil
}

// Validate checks geocoding provider configuration
func (g *GeocodingConfig) Validate() error {
	if g.BaseURL == "" {
		return errors.NewConfigurationError("GEOCODING_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(g.BaseURL, "http://") && !strings.HasPrefix(g.BaseURL, "https://") {
		return errors.NewConfigurationError("GEOCODING_BASE_URL must start with http:// or https://", nil)
	}
	if g.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("GEOCODING_TIMEOUT_SECONDS must be at least 1", nil)
	}
	return nil
}

// Validate checks forecast provider configuration
func (f *ForecastConfig) Validate() error {
	if f.BaseURL == "" {
		return errors.NewConfigurationError("FORECAST_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(f.BaseURL, "http://") && !strings.HasPrefix(f.BaseURL, "https://") {
		return errors.NewConfigurationError("FORECAST_BASE_URL must start with http:// or https://", nil)
	}
	if f.Timezone == "" {
		return errors.NewConfigurationError("FORECAST_TIMEZONE cannot be empty", nil)
	}
	if f.Days < 1 || f.Days > 16 {
		return errors.NewConfigurationError("FORECAST_DAYS must be between 1 and 16", nil)
	}
	if f.TimeoutSeconds < 1 {
		return errors.NewConfigurationError("FORECAST_TIMEOUT_SECONDS must be at least 1", nil)
	}
	return nil
}

// Validate checks sync trigger configuration
func (s *SyncConfig) Validate() error {
	if s.SharedSecret == "" {
		return errors.NewConfigurationError("SYNC_SHARED_SECRET is required", nil)
	}
	if s.CronHeaderName == "" {
		return errors.NewConfigurationError("SYNC_CRON_HEADER cannot be empty", nil)
	}
	if s.ThrottleMs < 0 {
		return errors.NewConfigurationError("SYNC_THROTTLE_MS cannot be negative", nil)
	}
	return nil
}

// Validate checks scheduler configuration
func (s *SchedulerConfig) Validate() error {
	if s.IntervalMinutes < 1 {
		return errors.NewConfigurationError("SCHEDULER_INTERVAL must be at least 1 minute", nil)
	}
	if s.IntervalMinutes > 10080 {
		return errors.NewConfigurationError("SCHEDULER_INTERVAL cannot exceed 10080 minutes (7 days)", nil)
	}
	return nil
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "memory", "redis", "none":
	default:
		return errors.NewConfigurationError("CACHE_TYPE must be one of: memory, redis, none", nil)
	}
	if c.Type == "redis" && c.RedisAddr == "" {
		return errors.NewConfigurationError("CACHE_REDIS_ADDR cannot be empty when CACHE_TYPE is redis", nil)
	}
	if c.TTLMinutes < 1 {
		return errors.NewConfigurationError("CACHE_TTL_MINUTES must be at least 1", nil)
	}
	return nil
}

// Validate checks event publisher configuration
func (e *EventsConfig) Validate() error {
	if !e.Enabled {
		return nil
	}
	if len(e.Brokers) == 0 {
		return errors.NewConfigurationError("EVENTS_BROKERS cannot be empty when events are enabled", nil)
	}
	if e.Topic == "" {
		return errors.NewConfigurationError("EVENTS_TOPIC cannot be empty when events are enabled", nil)
	}
	return nil
}
