package config

import (
	"testing"
	"time"

	"github.com/sporating/sporating/internal/platform/logging"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected app env: got=%s want=%s", cfg.AppEnv, EnvDev)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: got=%s", cfg.HTTPAddr)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: got=%v", cfg.LogLevel)
	}
	if cfg.ImportWorkerCount != 4 {
		t.Fatalf("unexpected worker count: got=%d want=4", cfg.ImportWorkerCount)
	}
	if cfg.Football.Host != "v3.football.api-sports.io" {
		t.Fatalf("unexpected football host: got=%s", cfg.Football.Host)
	}
	if len(cfg.Football.AllowedCompetitions) == 0 {
		t.Fatalf("expected default football competition allow-list")
	}
	if cfg.LeaderboardRecentMatches != 5 {
		t.Fatalf("unexpected recent matches: got=%d want=5", cfg.LeaderboardRecentMatches)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("FOOTBALL_COMPETITIONS", "Premier League, Eredivisie")
	t.Setenv("FOOTBALL_REQUEST_DELAY", "1s")
	t.Setenv("IMPORT_WORKER_COUNT", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvProd {
		t.Fatalf("unexpected app env: got=%s want=%s", cfg.AppEnv, EnvProd)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled by default in prod")
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected log level: got=%v", cfg.LogLevel)
	}
	if got := cfg.Football.AllowedCompetitions; len(got) != 2 || got[1] != "Eredivisie" {
		t.Fatalf("unexpected competitions: got=%v", got)
	}
	if cfg.Football.RequestDelay != time.Second {
		t.Fatalf("unexpected request delay: got=%v", cfg.Football.RequestDelay)
	}
	if cfg.ImportWorkerCount != 8 {
		t.Fatalf("unexpected worker count: got=%d want=8", cfg.ImportWorkerCount)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("bad app env", func(t *testing.T) {
		t.Setenv("APP_ENV", "sandbox")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown APP_ENV")
		}
	})

	t.Run("bad worker count", func(t *testing.T) {
		t.Setenv("IMPORT_WORKER_COUNT", "zero")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for non-numeric IMPORT_WORKER_COUNT")
		}
	})

	t.Run("uptrace requires dsn", func(t *testing.T) {
		t.Setenv("UPTRACE_ENABLED", "true")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when UPTRACE_DSN is missing")
		}
	})
}
