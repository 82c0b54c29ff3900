package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/WAVY91/front-project/internal/flagx"
	"github.com/WAVY91/front-project/internal/timex"
)

// FileConfig is the on-disk shape of the config, shared by JSON and YAML.
// Zero values leave the corresponding Config field untouched.
type FileConfig struct {
	APIBaseURL              string         `json:"api_base_url" yaml:"api_base_url"`
	CacheDSN                string         `json:"cache_dsn" yaml:"cache_dsn"`
	RequestTimeout          timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	CampaignRefreshInterval timex.Duration `json:"campaign_refresh_interval" yaml:"campaign_refresh_interval"`
	DonationRefreshInterval timex.Duration `json:"donation_refresh_interval" yaml:"donation_refresh_interval"`
	ContactRefreshInterval  timex.Duration `json:"contact_refresh_interval" yaml:"contact_refresh_interval"`
	LogLevel                string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with the file named by -c/-config, if any.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
// Read and decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func decodeFile(path string, data []byte) (FileConfig, error) {
	var fc FileConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return fc, nil
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.CacheDSN != "" {
		cfg.CacheDSN = fc.CacheDSN
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.CampaignRefreshInterval.Duration > 0 {
		cfg.CampaignRefreshInterval = fc.CampaignRefreshInterval.Duration
	}
	if fc.DonationRefreshInterval.Duration > 0 {
		cfg.DonationRefreshInterval = fc.DonationRefreshInterval.Duration
	}
	if fc.ContactRefreshInterval.Duration > 0 {
		cfg.ContactRefreshInterval = fc.ContactRefreshInterval.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
