package pairs

import (
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid pairs config")

// DefaultSymbols are the eight card faces
var DefaultSymbols = []string{"🎮", "🚀", "⭐", "🎯", "🔥", "💎", "🌟", "⚡"}

// Config holds the card faces and the resolution delays
type Config struct {
	Symbols       []string      `json:"symbols"`
	MatchDelay    core.Duration `json:"match_delay"`
	MismatchDelay core.Duration `json:"mismatch_delay"`
}

// DefaultConfig returns sixteen cards over the default symbols
func DefaultConfig() Config {
	return Config{
		Symbols:       append([]string(nil), DefaultSymbols...),
		MatchDelay:    core.Duration(500 * time.Millisecond),
		MismatchDelay: core.Duration(1000 * time.Millisecond),
	}
}

// Validate checks the config for impossible values
func (c Config) Validate() error {
	if len(c.Symbols) < 1 || len(c.Symbols) > 32 {
		return fmt.Errorf("%w: need between 1 and 32 symbols, got %d", ErrInvalidConfig, len(c.Symbols))
	}
	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		if s == "" {
			return fmt.Errorf("%w: symbols cannot be empty", ErrInvalidConfig)
		}
		if seen[s] {
			return fmt.Errorf("%w: duplicate symbol %q", ErrInvalidConfig, s)
		}
		seen[s] = true
	}
	if c.MatchDelay < 0 || c.MismatchDelay < 0 {
		return fmt.Errorf("%w: delays cannot be negative", ErrInvalidConfig)
	}
	return nil
}
