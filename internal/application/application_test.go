package application

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/bouquets/internal/allocator"
	"github.com/eugenenazirov/bouquets/internal/config"
	"github.com/eugenenazirov/bouquets/internal/session"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if app.server == nil || app.router == nil || app.handler == nil || app.runner == nil || app.allocator == nil {
		t.Fatalf("expected server, router, handler, runner and allocator to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health check to pass, got %d", rec.Code)
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewRunnerUsesConfiguredStrategy(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.Strategy = allocator.StrategyFailFast

	runner := NewRunner(cfg, zaptest.NewLogger(t))
	report, err := runner.Run(session.Order{
		Designs: []string{"AL2a1b3", "BL1"},
		Flowers: []string{"aL", "aL", "cL"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// fail-fast keeps the two a flowers taken by the failed first design
	if got := report.Results[1].String(); got != "BL1c" {
		t.Fatalf("expected BL1c, got %s", got)
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
		LogLevel:             "info",
		Strategy:             allocator.StrategyAtomic,
		MaxRequestBytes:      1024,
	}
}
