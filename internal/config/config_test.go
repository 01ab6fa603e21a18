package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.View.Mode != "list" || cfg.View.GridCellWidth != 22 {
		t.Fatalf("unexpected view defaults %+v", cfg.View)
	}
	up := cfg.Upload
	if up.TickInterval != 250*time.Millisecond || up.MinStep != 1 || up.MaxStep != 15 ||
		up.GracePeriod != 3*time.Second || up.Owner != "admin" {
		t.Fatalf("unexpected upload defaults %+v", up)
	}
	if !cfg.Demo.Seed || cfg.Metrics.Addr != "" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rfiles.yaml")
	yaml := "view:\n  mode: Grid\nupload:\n  max_step: 40\n  grace_period: 5s\n"
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RFILES_UPLOAD_MAX_STEP", "50")
	t.Setenv("RFILES_UPLOAD_TICK_INTERVAL", "100ms")

	cfg, err := Load(Options{File: file, Environ: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.View.Mode != "grid" {
		t.Fatalf("expected mode from file, got %q", cfg.View.Mode)
	}
	if cfg.Upload.MaxStep != 50 {
		t.Fatalf("expected environment to win, got %d", cfg.Upload.MaxStep)
	}
	if cfg.Upload.GracePeriod != 5*time.Second || cfg.Upload.TickInterval != 100*time.Millisecond {
		t.Fatalf("unexpected durations %+v", cfg.Upload)
	}
	pc := cfg.Upload.PipelineConfig()
	if pc.MaxStep != 50 || pc.GracePeriod != 5*time.Second {
		t.Fatalf("unexpected pipeline config %+v", pc)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(dotenv, []byte("RFILES_DEMO_SEED=false\nRFILES_UPLOAD_OWNER=registrar\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv never overrides variables that are already set.
	t.Setenv("RFILES_DEMO_SEED", "")
	os.Unsetenv("RFILES_DEMO_SEED")
	t.Setenv("RFILES_UPLOAD_OWNER", "")
	os.Unsetenv("RFILES_UPLOAD_OWNER")

	cfg, err := Load(Options{DotEnv: dotenv, Environ: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Demo.Seed || cfg.Upload.Owner != "registrar" {
		t.Fatalf("expected .env values, got %+v", cfg)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	if _, err := Load(Options{DotEnv: filepath.Join(t.TempDir(), "absent.env")}); err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"RFILES_VIEW_MODE":       "cards",
		"RFILES_UPLOAD_MIN_STEP": "0",
		"RFILES_UPLOAD_MAX_STEP": "150",
		"RFILES_LOG_LEVEL":       "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(Options{Environ: true}); err == nil {
				t.Fatalf("expected %s=%s to be rejected", key, value)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
