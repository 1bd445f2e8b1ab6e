package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTOML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "duel.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3000 {
		t.Fatalf("port = %d, want 3000", cfg.Port)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.GracePeriod != 20*time.Second {
		t.Fatalf("timeouts = %s / %s", cfg.RequestTimeout, cfg.GracePeriod)
	}
	if !cfg.AllowsAnyOrigin() {
		t.Fatalf("default CORS should allow any origin, got %v", cfg.CORSOrigins)
	}
	if cfg.Addr() != ":3000" {
		t.Fatalf("addr = %q", cfg.Addr())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeTOML(t, strings.Join([]string{
		`port = 4100`,
		`cors_origins = ["http://localhost:5173"]`,
		`request_timeout = "45s"`,
		`log_format = "json"`,
	}, "\n"))
	t.Setenv("PORT", "4200")
	t.Setenv("DUEL_GRACE_PERIOD", "5s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4200 {
		t.Fatalf("env should override file port, got %d", cfg.Port)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Fatalf("request timeout = %s, want 45s from file", cfg.RequestTimeout)
	}
	if cfg.GracePeriod != 5*time.Second {
		t.Fatalf("grace period = %s, want 5s from env", cfg.GracePeriod)
	}
	if cfg.AllowsAnyOrigin() || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("log format = %q", cfg.LogFormat)
	}
}

func TestLoadEnvList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"port":    func(c *Config) { c.Port = 0 },
		"request": func(c *Config) { c.RequestTimeout = 0 },
		"grace":   func(c *Config) { c.GracePeriod = -time.Second },
		"buffer":  func(c *Config) { c.SendBuffer = 0 },
		"format":  func(c *Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("DUEL_REQUEST_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for unparsable duration")
	}
}
