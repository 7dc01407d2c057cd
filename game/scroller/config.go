package scroller

import (
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid scroller config")

// Config holds the play area, physics constants and obstacle layout
type Config struct {
	Width          float64       `json:"width"`
	Height         float64       `json:"height"`
	ActorX         float64       `json:"actor_x"`
	ActorSize      float64       `json:"actor_size"`
	ObstacleWidth  float64       `json:"obstacle_width"`
	GapSize        float64       `json:"gap_size"`
	GapMin         float64       `json:"gap_min"`
	GapRange       float64       `json:"gap_range"`
	Gravity        float64       `json:"gravity"`
	JumpImpulse    float64       `json:"jump_impulse"`
	ScrollSpeed    float64       `json:"scroll_speed"`
	SpawnThreshold float64       `json:"spawn_threshold"`
	StartY         float64       `json:"start_y"`
	Interval       core.Duration `json:"interval"`
}

// DefaultConfig returns the 600x500 play area
func DefaultConfig() Config {
	return Config{
		Width:          600,
		Height:         500,
		ActorX:         100,
		ActorSize:      30,
		ObstacleWidth:  60,
		GapSize:        150,
		GapMin:         100,
		GapRange:       200,
		Gravity:        0.5,
		JumpImpulse:    -10,
		ScrollSpeed:    3,
		SpawnThreshold: 300,
		StartY:         250,
		Interval:       core.Duration(20 * time.Millisecond),
	}
}

// Validate checks the config for impossible values
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: play area must be positive, got %gx%g", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.ActorSize <= 0 || c.ActorSize >= c.Height {
		return fmt.Errorf("%w: actor_size must be positive and below height", ErrInvalidConfig)
	}
	if c.ActorX < 0 || c.ActorX+c.ActorSize > c.Width {
		return fmt.Errorf("%w: actor_x places the actor outside the play area", ErrInvalidConfig)
	}
	if c.ObstacleWidth <= 0 {
		return fmt.Errorf("%w: obstacle_width must be positive", ErrInvalidConfig)
	}
	if c.GapSize <= c.ActorSize {
		return fmt.Errorf("%w: gap_size %g must exceed actor_size %g", ErrInvalidConfig, c.GapSize, c.ActorSize)
	}
	if c.GapMin < 0 || c.GapRange < 0 || c.GapMin+c.GapRange+c.GapSize > c.Height {
		return fmt.Errorf("%w: gaps must fit inside height %g", ErrInvalidConfig, c.Height)
	}
	if c.Gravity <= 0 {
		return fmt.Errorf("%w: gravity must be positive", ErrInvalidConfig)
	}
	if c.JumpImpulse >= 0 {
		return fmt.Errorf("%w: jump_impulse must be negative (upward)", ErrInvalidConfig)
	}
	if c.ScrollSpeed <= 0 {
		return fmt.Errorf("%w: scroll_speed must be positive", ErrInvalidConfig)
	}
	if c.SpawnThreshold <= 0 || c.SpawnThreshold >= c.Width {
		return fmt.Errorf("%w: spawn_threshold must be inside the play area", ErrInvalidConfig)
	}
	if c.StartY < 0 || c.StartY+c.ActorSize > c.Height {
		return fmt.Errorf("%w: start_y places the actor outside the play area", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	return nil
}
