package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/basketlens/backend/internal/domain"
)

var configEnvVars = []string{
	"BASKETLENS_SERVER_PORT",
	"BASKETLENS_SERVER_ENVIRONMENT",
	"BASKETLENS_SERVER_ALLOWED_ORIGINS",
	"BASKETLENS_SESSION_TTL",
	"BASKETLENS_RATELIMIT_PER_IP",
	"BASKETLENS_LOG_FORMAT",
	"BASKETLENS_RETAILERS_WAITROSE_BASE_URL",
	"BASKETLENS_RETAILERS_ASDA_PAGE_SIZE",
	"BASKETLENS_FILTERS_CURRENCY",
	"BASKETLENS_FILTERS_PRICE_HIGH",
	"BASKETLENS_FILTERS_UNIT_PRICE_PER",
	"BASKETLENS_FILTERS_UNIT_KINDS",
}

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, name := range configEnvVars {
			os.Unsetenv(name)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.ShutdownTimeout != 15*time.Second {
			t.Errorf("Server.ShutdownTimeout = %v, want 15s", cfg.Server.ShutdownTimeout)
		}
		if cfg.Session.TTL != 2*time.Hour {
			t.Errorf("Session.TTL = %v, want 2h", cfg.Session.TTL)
		}
		if cfg.Session.CleanupInterval != 10*time.Minute {
			t.Errorf("Session.CleanupInterval = %v, want 10m", cfg.Session.CleanupInterval)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.Retailers.Waitrose.BaseURL != "https://www.waitrose.com" {
			t.Errorf("Retailers.Waitrose.BaseURL = %s, want https://www.waitrose.com", cfg.Retailers.Waitrose.BaseURL)
		}
		if cfg.Retailers.Waitrose.PageSize != 128 {
			t.Errorf("Retailers.Waitrose.PageSize = %d, want 128", cfg.Retailers.Waitrose.PageSize)
		}
		if cfg.Retailers.Asda.Timeout != 30*time.Second {
			t.Errorf("Retailers.Asda.Timeout = %v, want 30s", cfg.Retailers.Asda.Timeout)
		}
		if cfg.Filters.PriceHigh != 1000 {
			t.Errorf("Filters.PriceHigh = %v, want 1000", cfg.Filters.PriceHigh)
		}
		if len(cfg.Filters.UnitKinds) != 3 {
			t.Errorf("Filters.UnitKinds = %v, want all three kinds", cfg.Filters.UnitKinds)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BASKETLENS_SERVER_PORT", "9090")
		os.Setenv("BASKETLENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("BASKETLENS_SESSION_TTL", "30m")
		os.Setenv("BASKETLENS_RATELIMIT_PER_IP", "200")
		os.Setenv("BASKETLENS_LOG_FORMAT", "json")
		os.Setenv("BASKETLENS_RETAILERS_WAITROSE_BASE_URL", "https://waitrose.test")
		os.Setenv("BASKETLENS_RETAILERS_ASDA_PAGE_SIZE", "60")
		os.Setenv("BASKETLENS_FILTERS_CURRENCY", "nzd")
		os.Setenv("BASKETLENS_FILTERS_PRICE_HIGH", "50")
		os.Setenv("BASKETLENS_FILTERS_UNIT_PRICE_PER", "l")
		os.Setenv("BASKETLENS_FILTERS_UNIT_KINDS", "weight,volume")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Session.TTL != 30*time.Minute {
			t.Errorf("Session.TTL = %v, want 30m", cfg.Session.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Format != "json" {
			t.Errorf("Log.Format = %s, want json", cfg.Log.Format)
		}
		if cfg.Retailers.Waitrose.BaseURL != "https://waitrose.test" {
			t.Errorf("Retailers.Waitrose.BaseURL = %s, want https://waitrose.test", cfg.Retailers.Waitrose.BaseURL)
		}
		if cfg.Retailers.Asda.PageSize != 60 {
			t.Errorf("Retailers.Asda.PageSize = %d, want 60", cfg.Retailers.Asda.PageSize)
		}

		defaults, err := cfg.Filters.FilterDefaults()
		if err != nil {
			t.Fatalf("FilterDefaults() error = %v, want nil", err)
		}
		if defaults.PriceHigh.Currency != domain.CurrencyNZD || defaults.PriceHigh.Amount != 50 {
			t.Errorf("PriceHigh = %v, want 50 NZD", defaults.PriceHigh)
		}
		if defaults.UnitPriceHigh.PerUnit != domain.UnitL {
			t.Errorf("UnitPriceHigh.PerUnit = %v, want l", defaults.UnitPriceHigh.PerUnit)
		}
		if len(defaults.UnitKinds) != 2 {
			t.Errorf("UnitKinds = %v, want weight and volume", defaults.UnitKinds)
		}
	})

	t.Run("fails validation for unknown environment", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BASKETLENS_SERVER_ENVIRONMENT", "qa")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for unknown environment")
		}
		if !strings.HasPrefix(err.Error(), "invalid configuration: environment must be") {
			t.Errorf("Load() error = %v, want environment validation error", err)
		}
	})

	t.Run("fails validation for unknown filter currency", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BASKETLENS_FILTERS_CURRENCY", "doubloons")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for unknown currency")
		}
	})

	t.Run("fails validation for non-positive rate limit", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BASKETLENS_RATELIMIT_PER_IP", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero rate limit")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file
		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		// Clear any existing values
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}

		// Cleanup
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
	})

	t.Run("skips empty lines and comments", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file with various formats
		envContent := `
# This is a comment
   # This is also a comment

TEST_SKIP_1=value1

TEST_SKIP_2=value2
# TEST_COMMENTED=should_not_load
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
		os.Unsetenv("TEST_COMMENTED")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_SKIP_1") != "value1" {
			t.Errorf("TEST_SKIP_1 not loaded correctly")
		}
		if os.Getenv("TEST_SKIP_2") != "value2" {
			t.Errorf("TEST_SKIP_2 not loaded correctly")
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Set existing env var
		os.Setenv("TEST_OVERRIDE", "existing-value")

		// Create .env file that tries to override
		envContent := "TEST_OVERRIDE=new-value"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		// Should still have original value
		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}

		os.Unsetenv("TEST_OVERRIDE")
	})
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080", Environment: "development"},
		Session:   SessionConfig{TTL: time.Hour, CleanupInterval: time.Minute},
		RateLimit: RateLimitConfig{PerIP: 60, Burst: 10},
		Log:       LogConfig{Level: "info", Format: "console"},
		Retailers: RetailersConfig{
			Waitrose: RetailerConfig{BaseURL: "https://www.waitrose.com"},
			Asda:     RetailerConfig{BaseURL: "https://groceries.asda.com"},
		},
		Filters: FiltersConfig{
			Currency:      "gbp",
			PriceLow:      0,
			PriceHigh:     1000,
			UnitPriceLow:  0,
			UnitPriceHigh: 10,
			UnitPricePer:  "kg",
			QuantityLow:   0,
			QuantityHigh:  10,
			QuantityUnit:  "kg",
			UnitKinds:     []string{"weight", "volume", "other"},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(validConfig()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fails for invalid environment", func(c *Config) { c.Server.Environment = "qa" }},
		{"fails for invalid log format", func(c *Config) { c.Log.Format = "xml" }},
		{"fails for zero session TTL", func(c *Config) { c.Session.TTL = 0 }},
		{"fails for negative rate limit", func(c *Config) { c.RateLimit.PerIP = -1 }},
		{"fails when a retailer base URL is missing", func(c *Config) { c.Retailers.Asda.BaseURL = "" }},
		{"fails for unknown filter unit", func(c *Config) { c.Filters.QuantityUnit = "stone" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := validate(cfg); err == nil {
				t.Error("validate() error = nil, want error")
			}
		})
	}
}

func TestFiltersConfig_FilterDefaults(t *testing.T) {
	t.Run("converts the filter section", func(t *testing.T) {
		defaults, err := validConfig().Filters.FilterDefaults()
		if err != nil {
			t.Fatalf("FilterDefaults() error = %v, want nil", err)
		}
		if defaults.PriceHigh != domain.NewPrice(1000, domain.CurrencyGBP) {
			t.Errorf("PriceHigh = %v, want 1000 GBP", defaults.PriceHigh)
		}
		if defaults.QuantityHigh != domain.NewQuantity(10, domain.UnitKG) {
			t.Errorf("QuantityHigh = %v, want 10 kg", defaults.QuantityHigh)
		}
		if len(defaults.UnitKinds) != 3 {
			t.Errorf("UnitKinds = %v, want 3 kinds", defaults.UnitKinds)
		}
	})

	t.Run("rejects low not below high", func(t *testing.T) {
		filters := validConfig().Filters
		filters.UnitPriceLow = 10
		if _, err := filters.FilterDefaults(); err == nil {
			t.Error("FilterDefaults() error = nil, want error for empty unit price range")
		}
	})

	t.Run("rejects unknown unit kind", func(t *testing.T) {
		filters := validConfig().Filters
		filters.UnitKinds = []string{"weight", "colour"}
		if _, err := filters.FilterDefaults(); err == nil {
			t.Error("FilterDefaults() error = nil, want error for unknown unit kind")
		}
	})

	t.Run("accepts count ranges", func(t *testing.T) {
		filters := validConfig().Filters
		filters.QuantityUnit = "ea"
		filters.UnitPricePer = "pcs"
		if _, err := filters.FilterDefaults(); err != nil {
			t.Errorf("FilterDefaults() error = %v, want nil for a single-kind range", err)
		}
	})
}
