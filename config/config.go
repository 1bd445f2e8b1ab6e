package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration. Values are layered: Default, then the
// optional TOML file, then .env, then the process environment.
type Config struct {
	Host        string   `toml:"host"         env:"LISTEN_HOST"`
	Port        int      `toml:"port"         env:"PORT"`
	CORSOrigins []string `toml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	StaticDir   string   `toml:"static_dir"   env:"STATIC_DIR"`

	RequestTimeout time.Duration `toml:"request_timeout" env:"DUEL_REQUEST_TIMEOUT"`
	GracePeriod    time.Duration `toml:"grace_period"    env:"DUEL_GRACE_PERIOD"`
	SendBuffer     int           `toml:"send_buffer"     env:"WS_SEND_BUFFER"`

	LogLevel  string `toml:"log_level"  env:"LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`
}

func Default() Config {
	return Config{
		Port:           3000,
		CORSOrigins:    []string{"*"},
		RequestTimeout: 30 * time.Second,
		GracePeriod:    20 * time.Second,
		SendBuffer:     64,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// Load builds a Config. path names an optional TOML file; empty skips it.
// A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.GracePeriod <= 0 {
		return fmt.Errorf("grace period must be positive, got %s", c.GracePeriod)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send buffer must be positive, got %d", c.SendBuffer)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AllowsAnyOrigin reports whether CORSOrigins contains "*".
func (c Config) AllowsAnyOrigin() bool {
	for _, o := range c.CORSOrigins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
