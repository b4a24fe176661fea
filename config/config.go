package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Catalog   CatalogConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
	Intake    IntakeConfig
	Log       LogConfig

	v *viper.Viper
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For header is
	// honoured when resolving the client IP. Empty trusts no proxy.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// LLMConfig holds the upstream chat-completion gateway configuration
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CatalogConfig points at an optional catalog file; empty uses the built-in catalog
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// MatchingConfig tunes product matching
type MatchingConfig struct {
	DefaultSensitivity float64 `mapstructure:"default_sensitivity"`
	FilterUnknownSKUs  bool    `mapstructure:"filter_unknown_skus"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Store    string        `mapstructure:"store"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	PerIP    int           `mapstructure:"per_ip"`
	Upstream int           `mapstructure:"upstream"`
	IdleTTL  time.Duration `mapstructure:"idle_ttl"`
}

// IntakeConfig controls RFP document uploads. An empty UploadDir keeps
// uploads in memory only and reports an empty file path.
type IntakeConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/rfpdesk/")

	// Environment variable settings: RFPDESK_LLM_BASE_URL -> llm.base_url
	v.SetEnvPrefix("RFPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", "RFPDESK_LLM_API_KEY", "LOVABLE_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding api key: %w", err)
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	config.v = v

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// APIKey returns the upstream credential as currently configured. It is
// re-read on each call so a rotated key applies without a restart.
func (c *Config) APIKey() string {
	if c.v == nil {
		return c.LLM.APIKey
	}
	return c.v.GetString("llm.api_key")
}

// loadEnvFile loads .env from the working directory without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.trusted_proxies", []string{})

	// LLM gateway defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("llm.model", "google/gemini-2.5-flash")
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("catalog.path", "")

	// Matching defaults
	v.SetDefault("matching.default_sensitivity", 0.7)
	v.SetDefault("matching.filter_unknown_skus", true)

	// Rate limit defaults
	v.SetDefault("ratelimit.store", "memory")
	v.SetDefault("ratelimit.redis_url", "")
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.upstream", 0)
	v.SetDefault("ratelimit.idle_ttl", "10m")

	v.SetDefault("intake.upload_dir", "")

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration. A missing API key is allowed here;
// it is reported per request.
func validate(config *Config) error {
	for _, proxy := range config.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("trusted proxy must be an IP or CIDR, got: %s", proxy)
			}
		}
	}

	if config.LLM.BaseURL == "" {
		return fmt.Errorf("LLM base URL is required (set RFPDESK_LLM_BASE_URL)")
	}

	if config.LLM.Model == "" {
		return fmt.Errorf("LLM model is required (set RFPDESK_LLM_MODEL)")
	}

	if config.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM timeout must be positive, got: %s", config.LLM.Timeout)
	}

	if config.Matching.DefaultSensitivity < 0 || config.Matching.DefaultSensitivity > 1 {
		return fmt.Errorf("default sensitivity must be between 0 and 1, got: %v", config.Matching.DefaultSensitivity)
	}

	if config.RateLimit.Store != "memory" && config.RateLimit.Store != "redis" {
		return fmt.Errorf("rate limit store must be 'memory' or 'redis', got: %s", config.RateLimit.Store)
	}

	if config.RateLimit.Store == "redis" && config.RateLimit.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when rate limit store is 'redis'")
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Upstream < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
