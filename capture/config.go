package capture

import (
	"log/slog"
	"time"
)

// Config tunes browser captures.
type Config struct {
	// NavigationTimeout bounds navigation plus network settle. Default: 60s.
	NavigationTimeout time.Duration `json:"navigation_timeout" yaml:"navigation_timeout"`

	// SettleDelay is the fixed wait after network idle for late-loading
	// content. Default: 5s.
	SettleDelay time.Duration `json:"settle_delay" yaml:"settle_delay"`

	// ViewportWidth/ViewportHeight set the capture viewport. Default: 1920x1080.
	ViewportWidth  int `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int `json:"viewport_height" yaml:"viewport_height"`

	// Quality is the JPEG quality for full-page rasters. Default: 90.
	Quality int `json:"quality" yaml:"quality"`

	// Logger for debug/warn messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 60 * time.Second
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 5 * time.Second
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1920
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 1080
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = 90
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
