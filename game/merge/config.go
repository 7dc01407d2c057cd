package merge

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid merge config")

// Config holds the rules of a merge board
type Config struct {
	Size       int `json:"size"`
	WinTile    int `json:"win_tile"`
	FourChance int `json:"four_chance"` // percent
	StartTiles int `json:"start_tiles"`
}

// DefaultConfig returns the classic 4x4 board played to 2048
func DefaultConfig() Config {
	return Config{
		Size:       4,
		WinTile:    2048,
		FourChance: 10,
		StartTiles: 2,
	}
}

// Validate checks the config for impossible values
func (c Config) Validate() error {
	if c.Size < 2 || c.Size > 16 {
		return fmt.Errorf("%w: size must be between 2 and 16, got %d", ErrInvalidConfig, c.Size)
	}
	if c.WinTile < 4 || c.WinTile&(c.WinTile-1) != 0 {
		return fmt.Errorf("%w: win_tile must be a power of two >= 4, got %d", ErrInvalidConfig, c.WinTile)
	}
	if c.FourChance < 0 || c.FourChance > 100 {
		return fmt.Errorf("%w: four_chance must be a percentage, got %d", ErrInvalidConfig, c.FourChance)
	}
	if c.StartTiles < 1 || c.StartTiles > c.Size*c.Size {
		return fmt.Errorf("%w: start_tiles must be between 1 and %d, got %d", ErrInvalidConfig, c.Size*c.Size, c.StartTiles)
	}
	return nil
}
