package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/config"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                config.EnvDev,
		HTTPAddr:              ":0",
		ReadTimeout:           time.Second,
		WriteTimeout:          time.Second,
		StoreDriver:           config.StoreMemory,
		CacheEnabled:          true,
		CacheTTL:              time.Hour,
		MetricsEnabled:        true,
		ESPNBaseURL:           "http://127.0.0.1:1",
		ESPNStatsBaseURL:      "http://127.0.0.1:1",
		ESPNTimeout:           time.Second,
		GameDayLocation:       time.UTC,
		LiveReconcileInterval: time.Minute,
		LiveRolloverCron:      "5 0 * * *",
	}
}

func TestNew_MemoryStoreServesHealthAndMetrics(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			t.Fatalf("close app: %v", err)
		}
	}()

	srv, err := a.NewHTTPServer()
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "dirty_thirty_http_requests_total") {
		t.Fatalf("metrics: unexpected response %d", rec.Code)
	}
}

func TestNew_UsersPersistThroughCache(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	ctx := context.Background()
	if _, err := a.Users.Get(ctx, "user_jane_example_com"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected not found before register, got %v", err)
	}
	if _, err := a.Users.Register(ctx, "Jane", "jane@example.com"); err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := a.Users.Get(ctx, "user_jane_example_com")
	if err != nil || got.Name != "Jane" {
		t.Fatalf("cached miss must be invalidated on save, got %+v err=%v", got, err)
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""
	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	if _, err := a.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestSchedulerUniverses_NotReady(t *testing.T) {
	var s schedulerUniverses
	if _, err := s.UniverseFor(context.Background(), "2026-03-20"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}
