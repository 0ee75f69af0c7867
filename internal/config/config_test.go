package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/match-scoreboard/internal/domain/team"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_BetterStackRequiresEndpointWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}
}

func TestLoad_BetterStackConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "s1765114.eu-fsn-3.betterstackdata.com")
	t.Setenv("BETTERSTACK_TOKEN", "token-123")
	t.Setenv("BETTERSTACK_TIMEOUT", "4s")
	t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.BetterStackEnabled {
		t.Fatalf("expected BetterStackEnabled=true")
	}
	if cfg.BetterStackEndpoint != "s1765114.eu-fsn-3.betterstackdata.com" {
		t.Fatalf("unexpected BetterStackEndpoint: %q", cfg.BetterStackEndpoint)
	}
	if cfg.BetterStackToken != "token-123" {
		t.Fatalf("unexpected BetterStackToken")
	}
	if cfg.BetterStackTimeout != 4*time.Second {
		t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
	}
	if cfg.BetterStackMinLevel.String() != "warn" {
		t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel.String())
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "match-scoreboard-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "match-scoreboard-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_StorageConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("STORAGE_PATH", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverFile || cfg.StoragePath != "data/scoreboard.json" {
			t.Fatalf("unexpected storage defaults: driver=%s path=%s", cfg.StorageDriver, cfg.StoragePath)
		}
		if !cfg.StorageCircuitEnabled {
			t.Fatalf("expected circuit enabled by default")
		}
		if cfg.StorageCircuitFailureCount != 3 || cfg.StorageCircuitOpenTimeout != 10*time.Second {
			t.Fatalf("unexpected circuit defaults: %d %s", cfg.StorageCircuitFailureCount, cfg.StorageCircuitOpenTimeout)
		}
	})

	t.Run("memory driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", " Memory ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageDriverMemory {
			t.Fatalf("unexpected storage driver: %s", cfg.StorageDriver)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "redis")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})

	t.Run("invalid failure count", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("STORAGE_CIRCUIT_FAILURE_COUNT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for STORAGE_CIRCUIT_FAILURE_COUNT=0")
		}
	})
}

func TestLoad_ClockTickInterval(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default one second", func(t *testing.T) {
		t.Setenv("CLOCK_TICK_INTERVAL", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.ClockTickInterval != time.Second {
			t.Fatalf("unexpected tick interval: %s", cfg.ClockTickInterval)
		}
	})

	t.Run("must be positive", func(t *testing.T) {
		t.Setenv("CLOCK_TICK_INTERVAL", "-1s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative CLOCK_TICK_INTERVAL")
		}
	})
}

func TestLoad_TeamsDefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.Teams) != 2 || cfg.Teams[0].Name != "ABC" || cfg.Teams[1].Name != "Adversário" {
			t.Fatalf("unexpected default teams: %+v", cfg.Teams)
		}
		if cfg.Teams[0].CornersKey() != "ABC-corners" {
			t.Fatalf("default storage key must follow display name, got %s", cfg.Teams[0].CornersKey())
		}
		if cfg.Teams[1].ShotsKey() != "Adversário-shots" {
			t.Fatalf("unexpected team2 shots key: %s", cfg.Teams[1].ShotsKey())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEAM1_NAME", "Flamengo")
		t.Setenv("TEAM1_STORAGE_KEY", "home")
		t.Setenv("TEAM2_NAME", "Vasco")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Teams[0].Name != "Flamengo" || cfg.Teams[0].CornersKey() != "home-corners" {
			t.Fatalf("unexpected team1: %+v", cfg.Teams[0])
		}
		if cfg.Teams[1].ShotsKey() != "Vasco-shots" {
			t.Fatalf("unexpected team2 shots key: %s", cfg.Teams[1].ShotsKey())
		}
	})
}

func TestLoad_TeamsFile(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	dir := t.TempDir()
	writeFile := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	t.Run("file values", func(t *testing.T) {
		t.Setenv("SCOREBOARD_TEAMS_FILE", writeFile("teams.yaml", `
teams:
  - slot: team2
    name: Palmeiras
    storage_key: away
  - slot: team1
    name: Santos
`))
		t.Setenv("TEAM1_NAME", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Teams[0].Slot != team.SlotTeam1 || cfg.Teams[0].Name != "Santos" {
			t.Fatalf("unexpected team1: %+v", cfg.Teams[0])
		}
		if cfg.Teams[1].Name != "Palmeiras" || cfg.Teams[1].StorageKey != "away" {
			t.Fatalf("unexpected team2: %+v", cfg.Teams[1])
		}
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("SCOREBOARD_TEAMS_FILE", writeFile("teams-env.yaml", "teams:\n  - slot: team1\n    name: Santos\n"))
		t.Setenv("TEAM1_NAME", "Corinthians")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Teams[0].Name != "Corinthians" {
			t.Fatalf("expected env override, got %s", cfg.Teams[0].Name)
		}
	})

	t.Run("invalid slot", func(t *testing.T) {
		t.Setenv("SCOREBOARD_TEAMS_FILE", writeFile("bad.yaml", "teams:\n  - slot: team9\n    name: X\n"))
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid slot in teams file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("SCOREBOARD_TEAMS_FILE", filepath.Join(dir, "missing.yaml"))
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for missing teams file")
		}
	})
}
