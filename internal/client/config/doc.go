// Package config loads runtime configuration for the donation client.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional config file passed with -c or -config. Files ending in
//     .yaml/.yml are YAML, everything else is JSON.
//  3. Command-line flags.
//
// Flags:
//
//	-a string   base URL of the backend API
//	-d string   local cache DSN
//	-i int      campaign refresh interval (seconds)
//	-l string   log level
//
// Intervals in the file use timex.Duration, so "30s" and integer
// nanoseconds are both accepted:
//
//	api_base_url: https://api.example.org/api
//	cache_dsn: file:cache.db
//	request_timeout: 5s
//	campaign_refresh_interval: 30s
//	donation_refresh_interval: 30s
//	contact_refresh_interval: 10s
//	log_level: info
package config
