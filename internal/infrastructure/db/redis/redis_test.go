package redis

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Addr: "cache:6379"}.withDefaults()
	if cfg.DialTimeout != defaultDialTimeout || cfg.IOTimeout != defaultIOTimeout {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	cfg = Config{DialTimeout: time.Second, IOTimeout: 200 * time.Millisecond}.withDefaults()
	if cfg.DialTimeout != time.Second || cfg.IOTimeout != 200*time.Millisecond {
		t.Fatalf("explicit timeouts must be kept: %+v", cfg)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	if err == nil || !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Fatalf("expected ping error naming the address, got %v", err)
	}
}

func TestHealthCheck_Unreachable(t *testing.T) {
	check := HealthCheck(unreachableClient(t))
	if err := check(context.Background()); err == nil {
		t.Fatal("expected error from unreachable redis")
	}
}
