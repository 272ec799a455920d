package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds everything the client reads from the environment.
type Config struct {
	APIURL         string        `env:"TASKFLOW_API_URL" env-default:"http://localhost:8000/api"`
	RequestTimeout time.Duration `env:"TASKFLOW_TIMEOUT" env-default:"15s"`
	PollInterval   time.Duration `env:"TASKFLOW_POLL_INTERVAL" env-default:"30s"`
	RequestRate    float64       `env:"TASKFLOW_REQUEST_RATE" env-default:"10"`
	LogLevel       string        `env:"TASKFLOW_LOG_LEVEL" env-default:"info"`
	DataDir        string        `env:"TASKFLOW_DATA_DIR"`
}

// Load reads configuration from a local .env file, if present, and the
// environment. Missing values fall back to defaults.
func Load() (*Config, error) {
	// A missing .env is not an error; the environment alone is enough.
	_ = godotenv.Load()

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

// defaultDataDir resolves the XDG data directory for the app, creating it
// if needed.
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "taskflow")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return appDir, nil
}
