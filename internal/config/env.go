// internal/config/env.go
package config

import "os"

// Environment variables that override values from site.yaml.
const (
	EnvTitle         = "NIKOBLOG_TITLE"
	EnvURL           = "NIKOBLOG_URL"
	EnvBaseURL       = "NIKOBLOG_BASE_URL"
	EnvTrackingID    = "NIKOBLOG_TRACKING_ID"
	EnvDefaultLocale = "NIKOBLOG_DEFAULT_LOCALE"
)

// applyEnvOverrides applies NIKOBLOG_* variables on top of the file values.
func applyEnvOverrides(cfg *SiteConfig) {
	if v := os.Getenv(EnvTitle); v != "" {
		cfg.Title = v
	}
	if v := os.Getenv(EnvURL); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvTrackingID); v != "" {
		cfg.Analytics.TrackingID = v
	}
	if v := os.Getenv(EnvDefaultLocale); v != "" {
		cfg.I18n.DefaultLocale = v
	}
}
