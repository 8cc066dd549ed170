package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the proxy server.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Relay     RelayConfig
}

type ServerConfig struct {
	Port         int           `mapstructure:"PORT"`
	ReadTimeout  time.Duration `mapstructure:"API_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"API_WRITE_TIMEOUT"`
	RateLimit    int           `mapstructure:"API_RATE_LIMIT"`
	MaxBodyBytes int64         `mapstructure:"API_MAX_BODY_BYTES"`
	GinMode      string        `mapstructure:"GIN_MODE"`
}

type LogConfig struct {
	Level string `mapstructure:"LOG_LEVEL"`
}

// RedisConfig is optional; an empty URL keeps rate limiting in memory.
type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL"`
}

type ProvidersConfig struct {
	APIType      string        `mapstructure:"API_TYPE"`
	GeminiAPIKey string        `mapstructure:"GEMINI_API_KEY"`
	GeminiURL    string        `mapstructure:"GEMINI_URL"`
	OpenAIAPIKey string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIURL    string        `mapstructure:"OPENAI_URL"`
	OpenAIModel  string        `mapstructure:"OPENAI_MODEL"`
	Timeout      time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
}

type RelayConfig struct {
	Workers       int           `mapstructure:"RELAY_WORKERS"`
	QueueSize     int           `mapstructure:"RELAY_QUEUE_SIZE"`
	SweepInterval time.Duration `mapstructure:"RELAY_SWEEP_INTERVAL"`
	Retention     time.Duration `mapstructure:"RELAY_RETENTION"`
	UpstreamHosts []string      `mapstructure:"RELAY_UPSTREAM_HOSTS"`
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_READ_TIMEOUT", "10s")
	v.SetDefault("API_WRITE_TIMEOUT", "30s")
	v.SetDefault("API_RATE_LIMIT", 120)
	v.SetDefault("API_MAX_BODY_BYTES", 1<<20)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("API_TYPE", "simple")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_URL", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_URL", "")
	v.SetDefault("OPENAI_MODEL", "")
	v.SetDefault("PROVIDER_TIMEOUT", "60s")
	v.SetDefault("RELAY_WORKERS", 8)
	v.SetDefault("RELAY_QUEUE_SIZE", 256)
	v.SetDefault("RELAY_SWEEP_INTERVAL", "60s")
	v.SetDefault("RELAY_RETENTION", "5m")
	v.SetDefault("RELAY_UPSTREAM_HOSTS", "")

	// Attempt to read .env file (non-fatal if missing)
	_ = v.ReadInConfig()

	cfg := &Config{}
	cfg.Server.Port = v.GetInt("PORT")
	cfg.Server.ReadTimeout = v.GetDuration("API_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("API_WRITE_TIMEOUT")
	cfg.Server.RateLimit = v.GetInt("API_RATE_LIMIT")
	cfg.Server.MaxBodyBytes = v.GetInt64("API_MAX_BODY_BYTES")
	cfg.Server.GinMode = v.GetString("GIN_MODE")
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Redis.URL = v.GetString("REDIS_URL")
	cfg.Providers.APIType = strings.ToLower(v.GetString("API_TYPE"))
	cfg.Providers.GeminiAPIKey = v.GetString("GEMINI_API_KEY")
	cfg.Providers.GeminiURL = v.GetString("GEMINI_URL")
	cfg.Providers.OpenAIAPIKey = v.GetString("OPENAI_API_KEY")
	cfg.Providers.OpenAIURL = v.GetString("OPENAI_URL")
	cfg.Providers.OpenAIModel = v.GetString("OPENAI_MODEL")
	cfg.Providers.Timeout = v.GetDuration("PROVIDER_TIMEOUT")
	cfg.Relay.Workers = v.GetInt("RELAY_WORKERS")
	cfg.Relay.QueueSize = v.GetInt("RELAY_QUEUE_SIZE")
	cfg.Relay.SweepInterval = v.GetDuration("RELAY_SWEEP_INTERVAL")
	cfg.Relay.Retention = v.GetDuration("RELAY_RETENTION")
	cfg.Relay.UpstreamHosts = splitList(v.GetString("RELAY_UPSTREAM_HOSTS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("config: PORT %d out of range", c.Server.Port)
	case c.Relay.Workers <= 0:
		return fmt.Errorf("config: RELAY_WORKERS must be positive, got %d", c.Relay.Workers)
	case c.Relay.QueueSize < 0:
		return fmt.Errorf("config: RELAY_QUEUE_SIZE must not be negative, got %d", c.Relay.QueueSize)
	case c.Relay.SweepInterval <= 0:
		return fmt.Errorf("config: RELAY_SWEEP_INTERVAL must be positive, got %s", c.Relay.SweepInterval)
	case c.Relay.Retention <= 0:
		return fmt.Errorf("config: RELAY_RETENTION must be positive, got %s", c.Relay.Retention)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
