package config

import (
	"strings"
	"testing"
	"time"
)

// setRequired sets the env vars without which Load refuses to start.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.org")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port default: %q", cfg.Port)
	}
	if cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Errorf("mode/level defaults: %q %q", cfg.GinMode, cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("base path default: %q", cfg.APIBasePath)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.Path != "church.db" {
		t.Errorf("db defaults: %+v", cfg.DB)
	}
	if cfg.MaxUploadBytes != 200<<20 {
		t.Errorf("upload cap default: %d", cfg.MaxUploadBytes)
	}
	if cfg.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("token ttl default: %v", cfg.Auth.TokenTTL)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Errorf("idempotency ttl default: %v", cfg.IdempotencyTTL)
	}
}

func TestLoad_RequiredValues(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@example.org")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("ADMIN_EMAIL", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ADMIN_EMAIL") {
		t.Fatalf("expected ADMIN_EMAIL error, got %v", err)
	}
}

func TestLoad_NormalizationAndValidation(t *testing.T) {
	setRequired(t)

	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("ADMIN_EMAIL", "  Admin@Example.ORG ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("warning should normalize to warn, got %q", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("bogus mode should fall back to release, got %q", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("base path normalization: %q", cfg.APIBasePath)
	}
	if cfg.Auth.AdminEmail != "admin@example.org" {
		t.Errorf("admin email should be trimmed and lowercased, got %q", cfg.Auth.AdminEmail)
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DB_DSN") {
		t.Fatalf("expected DB_DSN error, got %v", err)
	}
	t.Setenv("DB_DSN", "host=localhost user=church dbname=church")
	if _, err := Load(); err != nil {
		t.Fatalf("load with dsn: %v", err)
	}
}

func TestLoad_BadLogLevelRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "YES")
	if !getbool("X_BOOL", false) {
		t.Errorf("YES should be truthy")
	}
	t.Setenv("X_DUR", "90s")
	if getdur("X_DUR", time.Second) != 90*time.Second {
		t.Errorf("duration parse failed")
	}
	if got := splitCSV(" a, ,b ,"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitCSV: %v", got)
	}
	if normalizeBasePath("") != "/" || normalizeBasePath("v1/") != "/v1" {
		t.Errorf("normalizeBasePath misbehaves")
	}
}
