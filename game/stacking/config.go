package stacking

import (
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid stacking config")

// Config holds board size, speed curve and scoring
type Config struct {
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	BaseInterval  core.Duration `json:"base_interval"`
	IntervalStep  core.Duration `json:"interval_step"`
	MinInterval   core.Duration `json:"min_interval"`
	LinesPerLevel int           `json:"lines_per_level"`
	LineScore     int           `json:"line_score"`
}

// DefaultConfig returns the 10x20 board
func DefaultConfig() Config {
	return Config{
		Width:         10,
		Height:        20,
		BaseInterval:  core.Duration(600 * time.Millisecond),
		IntervalStep:  core.Duration(50 * time.Millisecond),
		MinInterval:   core.Duration(100 * time.Millisecond),
		LinesPerLevel: 10,
		LineScore:     100,
	}
}

// Validate checks the config for impossible values
func (c Config) Validate() error {
	if c.Width < 4 || c.Width > 64 {
		return fmt.Errorf("%w: width must be between 4 and 64, got %d", ErrInvalidConfig, c.Width)
	}
	if c.Height < 4 || c.Height > 128 {
		return fmt.Errorf("%w: height must be between 4 and 128, got %d", ErrInvalidConfig, c.Height)
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("%w: min_interval must be positive", ErrInvalidConfig)
	}
	if c.BaseInterval < c.MinInterval {
		return fmt.Errorf("%w: base_interval %s is below min_interval %s", ErrInvalidConfig, c.BaseInterval, c.MinInterval)
	}
	if c.IntervalStep < 0 {
		return fmt.Errorf("%w: interval_step cannot be negative", ErrInvalidConfig)
	}
	if c.LinesPerLevel < 1 {
		return fmt.Errorf("%w: lines_per_level must be at least 1", ErrInvalidConfig)
	}
	if c.LineScore < 0 {
		return fmt.Errorf("%w: line_score cannot be negative", ErrInvalidConfig)
	}
	return nil
}
