package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Aggregator AggregatorConfig
	Geoapify   GeoapifyConfig
	Cache      CacheConfig
	Matching   MatchingConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AggregatorConfig holds the scraping backend configuration
type AggregatorConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeoapifyConfig holds geocoding configuration
type GeoapifyConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds result-cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds product-matching configuration
type MatchingConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	ToleranceRatio      float64 `mapstructure:"tolerance_ratio"`
	DropIncomparable    bool    `mapstructure:"drop_incomparable"`
	Local               bool    `mapstructure:"local"`
	EnableDebugLogging  bool    `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	UpstreamPerMinute int `mapstructure:"upstream_per_minute"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricewise/")

	// Environment variable settings
	v.SetEnvPrefix("PRICEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Aggregator defaults
	v.SetDefault("aggregator.base_url", "http://localhost:3001")
	v.SetDefault("aggregator.timeout", "120s")

	// Geoapify defaults
	v.SetDefault("geoapify.base_url", "https://api.geoapify.com")

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Matching defaults
	v.SetDefault("matching.similarity_threshold", 0.6)
	v.SetDefault("matching.tolerance_ratio", 2.0)
	v.SetDefault("matching.drop_incomparable", true)
	v.SetDefault("matching.local", false)
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.upstream_per_minute", 30)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Aggregator.BaseURL == "" {
		return fmt.Errorf("aggregator base URL is required (set PRICEWISE_AGGREGATOR_BASE_URL)")
	}

	if t := config.Matching.SimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matching similarity threshold must be in (0, 1], got: %v", t)
	}

	if r := config.Matching.ToleranceRatio; r <= 1 {
		return fmt.Errorf("matching tolerance ratio must be greater than 1, got: %v", r)
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache TTL must not be negative, got: %v", config.Cache.TTL)
	}

	return nil
}
