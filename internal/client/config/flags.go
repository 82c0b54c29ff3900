package config

import (
	"flag"
	"os"
	"time"

	"github.com/WAVY91/front-project/internal/flagx"
)

// parseFlags overlays Config with command-line flags:
//
//	-a string   base URL of the backend API
//	-d string   DSN of the local cache database
//	-i int      campaign refresh interval (in seconds, ignored unless positive)
//	-l string   log level (debug, info, warn, error)
//
// Only these flags are looked at; the rest of os.Args is left to others.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "local cache database DSN")
	refresh := fs.Int("i", int(cfg.CampaignRefreshInterval.Seconds()), "campaign refresh interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *refresh > 0 {
		cfg.CampaignRefreshInterval = time.Duration(*refresh) * time.Second
	}
}
