package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":3001" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Fatalf("unexpected StoreDriver: %q", cfg.StoreDriver)
	}
	if cfg.ESPNTimeout != 8*time.Second || cfg.ESPNMaxRetries != 0 {
		t.Fatalf("unexpected feed defaults: timeout=%s retries=%d", cfg.ESPNTimeout, cfg.ESPNMaxRetries)
	}
	if cfg.LiveReconcileInterval != time.Minute || cfg.LiveRolloverCron != "5 0 * * *" {
		t.Fatalf("unexpected live defaults: %s %q", cfg.LiveReconcileInterval, cfg.LiveRolloverCron)
	}
	if cfg.GameTournamentGroup != "100" || cfg.GameScheduleLimit != 50 {
		t.Fatalf("unexpected game defaults: %q %d", cfg.GameTournamentGroup, cfg.GameScheduleLimit)
	}
	if cfg.GameDayLocation == nil || cfg.GameDayLocation.String() != "UTC" {
		t.Fatalf("unexpected game day location: %v", cfg.GameDayLocation)
	}
	if cfg.CacheTTL != 6*time.Hour {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORE_DRIVER=postgres without DB_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=https://token@api.uptrace.dev/1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"ESPN_TIMEOUT":            "-1s",
		"ESPN_MAX_RETRIES":        "-1",
		"LIVE_RECONCILE_INTERVAL": "soon",
		"GAME_DAY_TIMEZONE":       "Mars/Olympus",
		"STORE_DRIVER":            "redis",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected split: %v", got)
	}
}
