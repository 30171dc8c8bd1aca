package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LAVA_MERCHANT_ID", "")
	t.Setenv("LAVA_SECRET_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Lava.Currency != "RUB" {
		t.Errorf("Expected RUB currency, got %s", cfg.Lava.Currency)
	}
	if cfg.JWT.TTL != 7*24*time.Hour {
		t.Errorf("Expected 7d token ttl, got %s", cfg.JWT.TTL)
	}
	if cfg.Lava.IsConfigured() {
		t.Error("Expected lava to be unconfigured without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LAVA_MERCHANT_ID", "m-1")
	t.Setenv("LAVA_SECRET_KEY", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Lava.IsConfigured() {
		t.Error("Expected lava to be configured")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.HTTP.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.HTTP.Port)
	}
}

func TestLoadRejectsDashedOrderPrefix(t *testing.T) {
	for _, prefix := range []string{"EPS-SHOP", "-"} {
		t.Setenv("LAVA_ORDER_PREFIX", prefix)
		if _, err := Load(); err == nil {
			t.Errorf("Expected order prefix %q to be rejected", prefix)
		}
	}

	t.Setenv("LAVA_ORDER_PREFIX", "SHOP")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Lava.OrderPrefix != "SHOP" {
		t.Errorf("Expected prefix SHOP, got %s", cfg.Lava.OrderPrefix)
	}
}

func TestLoadProductionNeedsJWTSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", defaultJWTSecret)
	if _, err := Load(); err == nil {
		t.Fatal("Expected production with the default jwt secret to fail")
	}

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Environment.IsProduction() || cfg.JWT.Secret != "a-real-secret" {
		t.Errorf("Unexpected config %+v", cfg.JWT)
	}

	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", defaultJWTSecret)
	if _, err := Load(); err != nil {
		t.Errorf("Expected default secret to be fine outside production, got %v", err)
	}
}
