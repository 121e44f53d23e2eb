// Package config resolves client configuration: a yaml file under the user
// config dir, overridden by SHEETS_* environment variables, overridden in
// turn by command-line flags (the cobra layer applies those last).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSizeLimitGB caps a single upload batch. Matches the server-side blob
// limit; rejecting locally saves a doomed transfer.
const FileSizeLimitGB = 100

// FileSizeLimitB is FileSizeLimitGB in bytes.
const FileSizeLimitB = int64(FileSizeLimitGB) << 30

// FolderUploadMaxFiles bounds folder uploads; larger trees should be zipped
// by the user first.
const FolderUploadMaxFiles = 1000

type Config struct {
	// Server is the platform base URL, e.g. "https://sheets.example.org".
	Server string `yaml:"server"`
	// Token is the bearer token for the REST service.
	Token string `yaml:"token"`
	// Worksheet is the default worksheet uuid the TUI opens.
	Worksheet string `yaml:"worksheet"`
	// FileSizeLimitGB overrides the upload size cap when set.
	FileSizeLimitGB int `yaml:"file_size_limit_gb,omitempty"`
}

// UploadLimitBytes returns the effective upload cap.
func (c Config) UploadLimitBytes() int64 {
	if c.FileSizeLimitGB > 0 {
		return int64(c.FileSizeLimitGB) << 30
	}
	return FileSizeLimitB
}

// Path returns the config file location ($XDG_CONFIG_HOME/sheets/config.yaml
// or the platform equivalent).
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "sheets", "config.yaml"), nil
}

// Load reads the config file (missing file is not an error) and applies
// SHEETS_SERVER, SHEETS_TOKEN, SHEETS_WORKSHEET, and SHEETS_FILE_SIZE_LIMIT_GB
// overrides.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads the config file without env overrides. `sheets config set`
// uses this so environment values never get persisted by accident.
func LoadFile() (Config, error) {
	var cfg Config
	path, err := Path()
	if err == nil {
		if raw, rerr := os.ReadFile(path); rerr == nil {
			if uerr := yaml.Unmarshal(raw, &cfg); uerr != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, uerr)
			}
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SHEETS_SERVER")); v != "" {
		cfg.Server = v
	}
	if v := strings.TrimSpace(os.Getenv("SHEETS_TOKEN")); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("SHEETS_WORKSHEET")); v != "" {
		cfg.Worksheet = v
	}
	if v := strings.TrimSpace(os.Getenv("SHEETS_FILE_SIZE_LIMIT_GB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FileSizeLimitGB = n
		}
	}
}

// Save writes the config file, creating the directory as needed. Used by
// `sheets config set`.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, raw, 0o600)
}
