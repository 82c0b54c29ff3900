package config

import "time"

// Config holds runtime settings for the donation client.
type Config struct {
	APIBaseURL              string
	CacheDSN                string
	RequestTimeout          time.Duration
	CampaignRefreshInterval time.Duration
	DonationRefreshInterval time.Duration
	ContactRefreshInterval  time.Duration
	LogLevel                string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.CacheDSN = "file:donations-cache.db"
	c.RequestTimeout = 10 * time.Second
	c.CampaignRefreshInterval = 30 * time.Second
	c.DonationRefreshInterval = 30 * time.Second
	c.ContactRefreshInterval = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the optional config file, then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
