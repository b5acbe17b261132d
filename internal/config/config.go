// Package config provides configuration types and loading for paddyguard.
package config

import "time"

// Config is the root configuration struct.
// Top-level groups: API, Notifications, Alerts.
type Config struct {
	API           APIConfig           `json:"api"`
	Notifications NotificationsConfig `json:"notifications"`
	Alerts        AlertsConfig        `json:"alerts"`
}

// ---------------------------------------------------------------------------
// API – backend connection
// ---------------------------------------------------------------------------

// APIConfig groups backend connection settings.
type APIConfig struct {
	BaseURL string        `json:"baseUrl" envconfig:"BASE_URL"`
	Timeout time.Duration `json:"timeout" envconfig:"TIMEOUT"`
}

// ---------------------------------------------------------------------------
// Notifications – background polling defaults
// ---------------------------------------------------------------------------

// NotificationsConfig holds local fallbacks for the per-identity polling
// settings. The backend copy is authoritative; these apply when it
// cannot be loaded.
type NotificationsConfig struct {
	Enabled       bool `json:"enabled" envconfig:"ENABLED"`
	IntervalHours int  `json:"intervalHours" envconfig:"INTERVAL_HOURS"`
}

// ---------------------------------------------------------------------------
// Alerts – delivery channels for the monitor daemon
// ---------------------------------------------------------------------------

// AlertsConfig contains alert channel configurations.
type AlertsConfig struct {
	Terminal TerminalAlertConfig `json:"terminal"`
	Slack    SlackAlertConfig    `json:"slack"`
}

// TerminalAlertConfig configures stdout alert delivery.
type TerminalAlertConfig struct {
	Enabled bool `json:"enabled" envconfig:"ENABLED"`
}

// SlackAlertConfig configures Slack alert delivery.
type SlackAlertConfig struct {
	Enabled bool   `json:"enabled" envconfig:"ENABLED"`
	Token   string `json:"token" envconfig:"TOKEN"`
	Channel string `json:"channel" envconfig:"CHANNEL"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:5000/api",
			Timeout: 30 * time.Second,
		},
		Notifications: NotificationsConfig{
			Enabled:       false,
			IntervalHours: 4,
		},
		Alerts: AlertsConfig{
			Terminal: TerminalAlertConfig{Enabled: true},
		},
	}
}
