package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/neurosphere-arcade/game/arcade"
	"github.com/wricardo/neurosphere-arcade/game/merge"
	"github.com/wricardo/neurosphere-arcade/game/pairs"
	"github.com/wricardo/neurosphere-arcade/game/scroller"
	"github.com/wricardo/neurosphere-arcade/game/snake"
	"github.com/wricardo/neurosphere-arcade/game/stacking"
	"github.com/wricardo/neurosphere-arcade/game/tictactoe"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Messages holds informational lines; otherwise it holds
// the errors that were found.
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages"`
}

// ValidateFile loads and validates one preset file
func ValidateFile(path string) ValidationResult {
	result := ValidationResult{
		File:     filepath.Base(path),
		Valid:    true,
		Messages: []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Messages = append(result.Messages, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var preset arcade.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		result.Valid = false
		result.Messages = append(result.Messages, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := preset.Validate(); err != nil {
		result.Valid = false
		result.Messages = append(result.Messages, err.Error())
		return result
	}

	result.Messages = append(result.Messages,
		fmt.Sprintf("✓ Name: %s", preset.Name),
		fmt.Sprintf("✓ Game: %s", preset.Game),
	)
	result.Messages = append(result.Messages, describe(preset.EngineConfig())...)
	return result
}

// ValidateDir validates every *.json file in dir, sorted by name
func ValidateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list config files: %w", err)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateFile(file))
	}
	return results, nil
}

// describe lists the headline rules of an engine config
func describe(cfg any) []string {
	switch c := cfg.(type) {
	case merge.Config:
		return []string{
			fmt.Sprintf("✓ Board: %dx%d", c.Size, c.Size),
			fmt.Sprintf("✓ Win tile: %d", c.WinTile),
		}
	case stacking.Config:
		return []string{
			fmt.Sprintf("✓ Board: %dx%d", c.Width, c.Height),
			fmt.Sprintf("✓ Drop interval: %s (min %s)", c.BaseInterval, c.MinInterval),
		}
	case snake.Config:
		return []string{
			fmt.Sprintf("✓ Board: %dx%d", c.Width, c.Height),
			fmt.Sprintf("✓ Tick: %s", c.Interval),
		}
	case scroller.Config:
		return []string{
			fmt.Sprintf("✓ Area: %gx%g", c.Width, c.Height),
			fmt.Sprintf("✓ Gap: %g", c.GapSize),
		}
	case pairs.Config:
		return []string{
			fmt.Sprintf("✓ Pairs: %d", len(c.Symbols)),
			fmt.Sprintf("✓ Delays: match %s, mismatch %s", c.MatchDelay, c.MismatchDelay),
		}
	case tictactoe.Config:
		return []string{
			fmt.Sprintf("✓ Opponent: %v (%s)", c.VsOpponent, c.Opponent),
		}
	}
	return nil
}
