package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Shopify ShopifyConfig
	Menu    MenuConfig
	Sync    SyncConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ShopifyConfig holds storefront API configuration
type ShopifyConfig struct {
	Domain     string `mapstructure:"domain"`
	Token      string `mapstructure:"token"` // storefront API access token
	APIVersion string `mapstructure:"api_version"`
}

// MenuConfig holds navigation menu source configuration
type MenuConfig struct {
	URL string `mapstructure:"url"`
}

// SyncConfig holds catalog synchronization tuning
type SyncConfig struct {
	// FirstPageSize is small to optimize latency to first paint; NextPageSize
	// is large to optimize round-trip count on the rest of the sweep.
	FirstPageSize  int           `mapstructure:"first_page_size"`
	NextPageSize   int           `mapstructure:"next_page_size"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopfront/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPFRONT")
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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Shopify defaults
	v.SetDefault("shopify.api_version", "2024-01")

	// Sync defaults
	v.SetDefault("sync.first_page_size", 50)
	v.SetDefault("sync.next_page_size", 250)
	v.SetDefault("sync.request_timeout", "30s")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Shopify.Domain == "" {
		return fmt.Errorf("shop domain is required (set SHOPFRONT_SHOPIFY_DOMAIN)")
	}

	if config.Shopify.Token == "" {
		return fmt.Errorf("storefront access token is required (set SHOPFRONT_SHOPIFY_TOKEN)")
	}

	if config.Sync.FirstPageSize <= 0 || config.Sync.NextPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive, got first=%d next=%d",
			config.Sync.FirstPageSize, config.Sync.NextPageSize)
	}

	return nil
}

// StorefrontURL renders the versioned query endpoint for the configured shop.
func (c *ShopifyConfig) StorefrontURL() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.Domain, c.APIVersion)
}
