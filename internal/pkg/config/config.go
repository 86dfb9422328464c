package config

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIBaseURL  string        `env:"TASKLIGHT_API_URL,      default=http://localhost:4000"`
	HTTPTimeout time.Duration `env:"TASKLIGHT_HTTP_TIMEOUT, default=30s"`
	LogLevel    string        `env:"LOG_LEVEL,              default=info"`
	LogFile     string        `env:"TASKLIGHT_LOG_FILE"`
	Profile     string        `env:"TASKLIGHT_PROFILE,      default=default"`

	// MetricsAddr, when set, starts a debug listener serving the prometheus
	// registry on /metrics (e.g. "127.0.0.1:9464").
	MetricsAddr string `env:"TASKLIGHT_METRICS_ADDR"`

	// SessionFile overrides the default ~/.tasklight/session.json location.
	SessionFile string `env:"TASKLIGHT_SESSION_FILE"`
	// SessionKey, when set, is a 64-char hex string (32 bytes) enabling
	// encryption of the session file at rest.
	SessionKey string `env:"TASKLIGHT_SESSION_KEY"`

	Redis RedisConfig
}

// RedisConfig selects the redis-backed session store when Addr is set,
// for shared-terminal deployments where a local session file is wrong.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// SessionPath resolves the session file location, defaulting to
// ~/.tasklight/session.json.
func (c *Config) SessionPath() (string, error) {
	if c.SessionFile != "" {
		return c.SessionFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tasklight", "session.json"), nil
}

// SessionKeyBytes decodes the hex session key. Empty key means plaintext.
func (c *Config) SessionKeyBytes() ([]byte, error) {
	if c.SessionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("decode session key: %w", err)
	}
	return key, nil
}
