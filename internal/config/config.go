// Package config loads and saves the settings remembered between runs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPlatform = "google"
	DefaultAccount  = "default"
)

type Config struct {
	Platform   string `toml:"platform"`
	Account    string `toml:"account"`
	Calendar   string `toml:"calendar,omitempty"`
	WebhookURL string `toml:"webhook_url,omitempty"`
	Username   string `toml:"username,omitempty"`

	path string
}

// DefaultPath is $HOME/.config/calendarposter/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "calendarposter.toml"
	}
	return filepath.Join(home, ".config", "calendarposter", "config.toml")
}

// Load reads the config at path. A missing file is not an error, the
// defaults are returned and Save will create it.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Platform: DefaultPlatform,
		Account:  DefaultAccount,
		path:     path,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.Platform == "" {
		cfg.Platform = DefaultPlatform
	}
	if cfg.Account == "" {
		cfg.Account = DefaultAccount
	}
	return cfg, nil
}

func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", c.path, err)
	}
	return nil
}
