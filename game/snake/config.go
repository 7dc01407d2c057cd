package snake

import (
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid snake config")

// Config holds the board, start position and speed
type Config struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Start      Point         `json:"start"`
	Direction  Direction     `json:"direction"`
	FoodReward int           `json:"food_reward"`
	Interval   core.Duration `json:"interval"`
}

// DefaultConfig returns the 20x20 board starting in the middle heading right
func DefaultConfig() Config {
	return Config{
		Width:      20,
		Height:     20,
		Start:      Point{Row: 10, Col: 10},
		Direction:  Right,
		FoodReward: 10,
		Interval:   core.Duration(150 * time.Millisecond),
	}
}

// Validate checks the config for impossible values
func (c Config) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return fmt.Errorf("%w: board must be at least 2x2, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Start.Row < 0 || c.Start.Row >= c.Height || c.Start.Col < 0 || c.Start.Col >= c.Width {
		return fmt.Errorf("%w: start (%d,%d) is off the board", ErrInvalidConfig, c.Start.Row, c.Start.Col)
	}
	if c.Direction < Up || c.Direction > Right {
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidConfig, c.Direction)
	}
	if c.FoodReward < 0 {
		return fmt.Errorf("%w: food_reward cannot be negative", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	return nil
}
