package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".paddyguard"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// Home returns the paddyguard config home directory, honoring
// PADDYGUARD_HOME.
func Home() (string, error) {
	if h := strings.TrimSpace(os.Getenv("PADDYGUARD_HOME")); h != "" {
		if strings.HasPrefix(h, "~") {
			base, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(base, h[1:]), nil
		}
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir), nil
}

// ConfigPath returns the path to the config file, honoring
// PADDYGUARD_CONFIG.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("PADDYGUARD_CONFIG")); explicit != "" {
		if strings.HasPrefix(explicit, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, explicit[1:]), nil
		}
		return explicit, nil
	}
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFile), nil
}

// Load loads the configuration from file and environment variables.
// Priority: environment > file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Load process env vars from ~/.config/paddyguard/env (and fallbacks) first.
	LoadEnvFileCandidates()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil // Use defaults if we can't find the config path
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	// If the file doesn't exist, continue with defaults.

	// Override with environment variables for each group.
	envconfig.Process("PADDYGUARD_API", &cfg.API)
	envconfig.Process("PADDYGUARD_NOTIFICATIONS", &cfg.Notifications)
	envconfig.Process("PADDYGUARD_ALERTS_TERMINAL", &cfg.Alerts.Terminal)
	envconfig.Process("PADDYGUARD_ALERTS_SLACK", &cfg.Alerts.Slack)

	// Fallback for the Slack token.
	if cfg.Alerts.Slack.Token == "" {
		if tok := os.Getenv("SLACK_BOT_TOKEN"); tok != "" {
			cfg.Alerts.Slack.Token = tok
		}
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultConfig().API.BaseURL
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = DefaultConfig().API.Timeout
	}
	if cfg.Notifications.IntervalHours <= 0 {
		cfg.Notifications.IntervalHours = DefaultConfig().Notifications.IntervalHours
	}

	return cfg, nil
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
