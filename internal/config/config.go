// Package config loads the application settings from an optional YAML file
// and EMOTIQUEST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emotiquest/emotiquest/internal/llm"
)

// Config is the full application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the XDG default.
	DBPath string `yaml:"db_path"`

	// BankPath is an optional question bank file replacing the built-in one.
	BankPath string `yaml:"bank_path"`

	Server  Server     `yaml:"server"`
	Logging Logging    `yaml:"logging"`
	LLM     llm.Config `yaml:"llm"`
}

// Server configures the admin HTTP API.
type Server struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Logging configures the zap logger.
type Logging struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`

	// File receives TUI logs. Empty means next to the database.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Logging: Logging{
			Mode:  "development",
			Level: "info",
		},
		LLM: llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/emotiquest/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "emotiquest", "config.yaml")
}

// Load reads path (or EMOTIQUEST_CONFIG, or DefaultPath when path is empty)
// over the defaults and then applies environment overrides. A missing file
// at the default location is not an error; an explicitly named one is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv("EMOTIQUEST_CONFIG"); p != "" {
			path, explicit = p, true
		} else {
			path = DefaultPath()
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.LLM.Provider == "" {
		if discovered, ok := llm.Discover(cfg.LLM); ok {
			cfg.LLM = discovered
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		env string
		dst *string
	}{
		{"EMOTIQUEST_DB", &cfg.DBPath},
		{"EMOTIQUEST_BANK", &cfg.BankPath},
		{"EMOTIQUEST_ADDR", &cfg.Server.Addr},
		{"EMOTIQUEST_LOG_MODE", &cfg.Logging.Mode},
		{"EMOTIQUEST_LOG_LEVEL", &cfg.Logging.Level},
		{"EMOTIQUEST_LOG_FILE", &cfg.Logging.File},
		{"EMOTIQUEST_LLM_PROVIDER", &cfg.LLM.Provider},
		{"EMOTIQUEST_LLM_MODEL", &cfg.LLM.Model},
		{"EMOTIQUEST_LLM_API_KEY", &cfg.LLM.APIKey},
		{"EMOTIQUEST_LLM_BASE_URL", &cfg.LLM.BaseURL},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("EMOTIQUEST_LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("EMOTIQUEST_LLM_TIMEOUT: %w", err)
		}
		cfg.LLM.Timeout = d
	}
	if v := os.Getenv("EMOTIQUEST_LLM_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EMOTIQUEST_LLM_MAX_ATTEMPTS: %w", err)
		}
		cfg.LLM.Retry.MaxAttempts = n
	}
	return nil
}

// LogFile returns the TUI log file: the configured one, or emotiquest.log
// next to dbPath.
func (c Config) LogFile(dbPath string) string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(filepath.Dir(dbPath), "emotiquest.log")
}
