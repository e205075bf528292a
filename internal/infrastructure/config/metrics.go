package config

import "time"

// MetricsConfig controls the Prometheus endpoint served by the watch command
type MetricsConfig struct {
	// Enabled also turns on request and valuation metrics for one-shot commands
	Enabled bool `mapstructure:"enabled"`

	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path string `mapstructure:"path"`

	// How often the store gauges (listing counts, market data age) are refreshed
	StorePollInterval time.Duration `mapstructure:"store_poll_interval"`
}
