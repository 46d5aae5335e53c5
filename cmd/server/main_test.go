package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/basketlens/backend/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			Environment:     "development",
			ShutdownTimeout: time.Second,
		},
		Session: config.SessionConfig{
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
		Filters: config.FiltersConfig{
			Currency:      "gbp",
			PriceHigh:     1000,
			UnitPriceHigh: 10,
			UnitPricePer:  "kg",
			QuantityHigh:  10,
			QuantityUnit:  "kg",
			UnitKinds:     []string{"weight", "volume", "other"},
		},
	}
}

func TestRun(t *testing.T) {
	t.Run("returns setup errors instead of exiting", func(t *testing.T) {
		cfg := testConfig()
		cfg.Filters.Currency = "doubloons"

		err := run(context.Background(), cfg, zerolog.Nop())
		if err == nil {
			t.Fatal("run() error = nil, want invalid filter defaults")
		}
		if !strings.HasPrefix(err.Error(), "invalid filter defaults") {
			t.Errorf("run() error = %v, want invalid filter defaults", err)
		}
	})

	t.Run("returns listener errors", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.Port = "not-a-port"

		if err := run(context.Background(), cfg, zerolog.Nop()); err == nil {
			t.Error("run() error = nil, want server error")
		}
	})

	t.Run("shuts down cleanly when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- run(ctx, testConfig(), zerolog.Nop()) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("run() error = %v, want nil", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("run() did not return after cancellation")
		}
	})
}
