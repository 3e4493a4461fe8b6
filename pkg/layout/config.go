package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by [Config.Validate] for unusable spacing.
var ErrInvalidConfig = errors.New("invalid layout config")

// Default spacing, in pixels.
const (
	DefaultNodeWidth     = 220.0
	DefaultNodeHeight    = 72.0
	DefaultHorizontalGap = 96.0
	DefaultVerticalGap   = 32.0
	DefaultMargin        = 40.0
)

// Config holds node dimensions and spacing.
type Config struct {
	NodeWidth     float64 `toml:"node_width"`
	NodeHeight    float64 `toml:"node_height"`
	HorizontalGap float64 `toml:"horizontal_gap"`
	VerticalGap   float64 `toml:"vertical_gap"`
	Margin        float64 `toml:"margin"`
}

// DefaultConfig returns the default spacing.
func DefaultConfig() Config {
	return Config{
		NodeWidth:     DefaultNodeWidth,
		NodeHeight:    DefaultNodeHeight,
		HorizontalGap: DefaultHorizontalGap,
		VerticalGap:   DefaultVerticalGap,
		Margin:        DefaultMargin,
	}
}

// Validate checks that node sizes are positive and gaps are non-negative.
func (c Config) Validate() error {
	switch {
	case c.NodeWidth <= 0:
		return fmt.Errorf("%w: node_width must be positive, got %v", ErrInvalidConfig, c.NodeWidth)
	case c.NodeHeight <= 0:
		return fmt.Errorf("%w: node_height must be positive, got %v", ErrInvalidConfig, c.NodeHeight)
	case c.HorizontalGap < 0:
		return fmt.Errorf("%w: horizontal_gap must not be negative, got %v", ErrInvalidConfig, c.HorizontalGap)
	case c.VerticalGap < 0:
		return fmt.Errorf("%w: vertical_gap must not be negative, got %v", ErrInvalidConfig, c.VerticalGap)
	case c.Margin < 0:
		return fmt.Errorf("%w: margin must not be negative, got %v", ErrInvalidConfig, c.Margin)
	}
	return nil
}

// WithDefaults returns DefaultConfig for the zero Config. Otherwise only
// a zero node size is defaulted; gaps and margin are used as given, so
// zero spacing can be configured.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c == (Config{}) {
		return d
	}
	if c.NodeWidth == 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight == 0 {
		c.NodeHeight = d.NodeHeight
	}
	return c
}
