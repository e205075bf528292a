package config

import "time"

// StoreConfig tunes how market recalculation talks to the listing store
type StoreConfig struct {
	// Write throttling for market estimate updates
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Interval between recalculation runs in watch mode
	WatchInterval time.Duration `mapstructure:"watch_interval"`

	// Single-instance lock for watch mode
	PIDFile string `mapstructure:"pid_file"`
}

// RateLimitConfig holds token bucket settings
type RateLimitConfig struct {
	// Requests per second; 0 disables throttling
	Requests float64 `mapstructure:"requests" validate:"min=0"`

	// Burst size
	Burst int `mapstructure:"burst" validate:"min=1"`
}
