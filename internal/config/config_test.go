package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"vet-clinic-console/internal/platform/logger"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := fromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	if cfg.Port != "8080" || cfg.AppName != DefaultAppName {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TransitionCooldown != time.Second || cfg.ClinicAPITimeout != 10*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.LogLevel != logger.Info || cfg.LogFormat != logger.FormatText {
		t.Fatalf("unexpected log defaults: %+v", cfg)
	}
	if cfg.Store() != StoreMemory {
		t.Fatalf("expected memory store, got %s", cfg.Store())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := fromEnv(envMap(map[string]string{
		"PORT":                "9090",
		"CLINIC_API_URL":      "https://clinic.example.com/api",
		"DB_DSN":              "postgres://x",
		"TRANSITION_COOLDOWN": "250ms",
		"CLINIC_API_TIMEOUT":  "3",
		"LOG_LEVEL":           "debug",
		"LOG_FORMAT":          "json",
	}))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation err: %v", err)
	}

	if cfg.Addr() != ":9090" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
	if cfg.TransitionCooldown != 250*time.Millisecond || cfg.ClinicAPITimeout != 3*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.Store() != StoreClinicAPI {
		t.Fatalf("clinic api must win over DB_DSN, got %s", cfg.Store())
	}
	opts := cfg.LoggerOptions()
	if opts.Level != logger.Debug || opts.Format != logger.FormatJSON || opts.App != DefaultAppName {
		t.Fatalf("unexpected logger options: %+v", opts)
	}
}

func TestFromEnv_BadDuration(t *testing.T) {
	if _, err := fromEnv(envMap(map[string]string{"TRANSITION_COOLDOWN": "soon"})); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestValidate(t *testing.T) {
	base, _ := fromEnv(envMap(nil))

	bad := base
	bad.Port = "99999"
	if bad.Validate() == nil {
		t.Fatal("expected error for bad port")
	}

	bad = base
	bad.ClinicAPIURL = "clinic.local"
	if bad.Validate() == nil {
		t.Fatal("expected error for url without scheme")
	}

	bad = base
	bad.TransitionCooldown = 0
	if bad.Validate() == nil {
		t.Fatal("expected error for zero cooldown")
	}
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("APP_NAME=from-file\nPORT=7000\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	t.Setenv("PORT", "7100")
	t.Setenv("APP_NAME", "")
	os.Unsetenv("APP_NAME")
	t.Setenv("CLINIC_API_URL", "")
	t.Setenv("DB_DSN", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.AppName != "from-file" {
		t.Fatalf("expected APP_NAME from .env, got %q", cfg.AppName)
	}
	if cfg.Port != "7100" {
		t.Fatalf("environment must win over .env, got %q", cfg.Port)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CLINIC_API_URL", "")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing .env must be ignored, got %v", err)
	}
}
