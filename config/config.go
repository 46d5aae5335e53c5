package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/basketlens/backend/internal/domain"
	"github.com/basketlens/backend/internal/usecase"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Retailers RetailersConfig
	Filters   FiltersConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SessionConfig holds search session lifetime configuration
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// RetailersConfig holds one client configuration per retailer
type RetailersConfig struct {
	Waitrose RetailerConfig `mapstructure:"waitrose"`
	Asda     RetailerConfig `mapstructure:"asda"`
}

// RetailerConfig holds a retailer search API configuration
type RetailerConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	PageSize          int           `mapstructure:"page_size"`
	MaxItems          int           `mapstructure:"max_items"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// FiltersConfig holds the parameters new pipelines start with
type FiltersConfig struct {
	Currency      string   `mapstructure:"currency"`
	PriceLow      float64  `mapstructure:"price_low"`
	PriceHigh     float64  `mapstructure:"price_high"`
	UnitPriceLow  float64  `mapstructure:"unit_price_low"`
	UnitPriceHigh float64  `mapstructure:"unit_price_high"`
	UnitPricePer  string   `mapstructure:"unit_price_per"`
	QuantityLow   float64  `mapstructure:"quantity_low"`
	QuantityHigh  float64  `mapstructure:"quantity_high"`
	QuantityUnit  string   `mapstructure:"quantity_unit"`
	UnitKinds     []string `mapstructure:"unit_kinds"`
	Description   string   `mapstructure:"description"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/basketlens/")

	// Environment variable settings: server.port -> BASKETLENS_SERVER_PORT
	v.SetEnvPrefix("BASKETLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
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

// loadEnvFile exports the variables of ./.env, if present. Variables already
// set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.shutdown_timeout", "15s")

	// Session defaults
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Retailer defaults
	v.SetDefault("retailers.waitrose.base_url", "https://www.waitrose.com")
	v.SetDefault("retailers.waitrose.page_size", 128)
	v.SetDefault("retailers.waitrose.max_items", 5000)
	v.SetDefault("retailers.waitrose.timeout", "30s")
	v.SetDefault("retailers.waitrose.requests_per_second", 2.0)
	v.SetDefault("retailers.asda.base_url", "https://groceries.asda.com")
	v.SetDefault("retailers.asda.page_size", 1000)
	v.SetDefault("retailers.asda.max_items", 1000)
	v.SetDefault("retailers.asda.timeout", "30s")
	v.SetDefault("retailers.asda.requests_per_second", 2.0)

	// Filter defaults
	v.SetDefault("filters.currency", "gbp")
	v.SetDefault("filters.price_low", 0.0)
	v.SetDefault("filters.price_high", 1000.0)
	v.SetDefault("filters.unit_price_low", 0.0)
	v.SetDefault("filters.unit_price_high", 10.0)
	v.SetDefault("filters.unit_price_per", "kg")
	v.SetDefault("filters.quantity_low", 0.0)
	v.SetDefault("filters.quantity_high", 10.0)
	v.SetDefault("filters.quantity_unit", "kg")
	v.SetDefault("filters.unit_kinds", []string{"weight", "volume", "other"})
	v.SetDefault("filters.description", "")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("environment must be 'development', 'staging' or 'production', got: %s", config.Server.Environment)
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got: %v", config.Session.TTL)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	for name, retailer := range map[string]RetailerConfig{
		"waitrose": config.Retailers.Waitrose,
		"asda":     config.Retailers.Asda,
	} {
		if retailer.BaseURL == "" {
			return fmt.Errorf("%s base URL is required", name)
		}
	}

	if _, err := config.Filters.FilterDefaults(); err != nil {
		return fmt.Errorf("filters: %w", err)
	}

	return nil
}

// FilterDefaults converts the filter section into pipeline defaults.
// Every range must have low below high.
func (c FiltersConfig) FilterDefaults() (usecase.FilterDefaults, error) {
	currency, err := domain.ParseCurrency(c.Currency)
	if err != nil {
		return usecase.FilterDefaults{}, err
	}
	perUnit, err := domain.ParseUnit(c.UnitPricePer)
	if err != nil {
		return usecase.FilterDefaults{}, err
	}
	quantityUnit, err := domain.ParseUnit(c.QuantityUnit)
	if err != nil {
		return usecase.FilterDefaults{}, err
	}

	kinds := make([]domain.UnitKind, 0, len(c.UnitKinds))
	for _, name := range c.UnitKinds {
		kind, err := domain.ParseUnitKind(name)
		if err != nil {
			return usecase.FilterDefaults{}, err
		}
		kinds = append(kinds, kind)
	}

	for _, r := range []struct {
		name      string
		low, high float64
	}{
		{"price", c.PriceLow, c.PriceHigh},
		{"unit price", c.UnitPriceLow, c.UnitPriceHigh},
		{"quantity", c.QuantityLow, c.QuantityHigh},
	} {
		if r.low >= r.high {
			return usecase.FilterDefaults{}, fmt.Errorf("%s low (%g) must be below high (%g)", r.name, r.low, r.high)
		}
	}

	defaults := usecase.FilterDefaults{
		PriceLow:      domain.NewPrice(c.PriceLow, currency),
		PriceHigh:     domain.NewPrice(c.PriceHigh, currency),
		UnitPriceLow:  domain.UnitPrice{Price: domain.NewPrice(c.UnitPriceLow, currency), PerUnit: perUnit},
		UnitPriceHigh: domain.UnitPrice{Price: domain.NewPrice(c.UnitPriceHigh, currency), PerUnit: perUnit},
		QuantityLow:   domain.NewQuantity(c.QuantityLow, quantityUnit),
		QuantityHigh:  domain.NewQuantity(c.QuantityHigh, quantityUnit),
		UnitKinds:     kinds,
		Description:   c.Description,
	}

	// catches anything the pipeline itself rejects
	if _, err := usecase.NewPipeline(defaults); err != nil {
		return usecase.FilterDefaults{}, err
	}
	return defaults, nil
}
