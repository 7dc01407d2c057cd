package arcade

import (
	"errors"
	"fmt"

	"github.com/wricardo/neurosphere-arcade/game/core"
	"github.com/wricardo/neurosphere-arcade/game/merge"
	"github.com/wricardo/neurosphere-arcade/game/pairs"
	"github.com/wricardo/neurosphere-arcade/game/scroller"
	"github.com/wricardo/neurosphere-arcade/game/snake"
	"github.com/wricardo/neurosphere-arcade/game/stacking"
	"github.com/wricardo/neurosphere-arcade/game/tictactoe"
)

var (
	ErrUnknownKind   = errors.New("unknown game kind")
	ErrInvalidPreset = errors.New("invalid preset")
)

// Preset is a named engine configuration
type Preset struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Game        core.Kind         `json:"game"`
	Merge       *merge.Config     `json:"merge,omitempty"`
	Stacking    *stacking.Config  `json:"stacking,omitempty"`
	Snake       *snake.Config     `json:"snake,omitempty"`
	Scroller    *scroller.Config  `json:"scroller,omitempty"`
	Pairs       *pairs.Config     `json:"pairs,omitempty"`
	TicTacToe   *tictactoe.Config `json:"tictactoe,omitempty"`
}

// DefaultPreset returns a preset for kind with the engine defaults filled in
func DefaultPreset(kind core.Kind) (*Preset, error) {
	p := &Preset{Name: string(kind), Description: "Default " + string(kind) + " rules", Game: kind}
	switch kind {
	case core.KindMerge:
		c := merge.DefaultConfig()
		p.Merge = &c
	case core.KindStacking:
		c := stacking.DefaultConfig()
		p.Stacking = &c
	case core.KindSnake:
		c := snake.DefaultConfig()
		p.Snake = &c
	case core.KindScroller:
		c := scroller.DefaultConfig()
		p.Scroller = &c
	case core.KindPairs:
		c := pairs.DefaultConfig()
		p.Pairs = &c
	case core.KindTicTacToe:
		c := tictactoe.DefaultConfig()
		p.TicTacToe = &c
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return p, nil
}

// sections returns which config sections are set, by kind
func (p *Preset) sections() map[core.Kind]bool {
	return map[core.Kind]bool{
		core.KindMerge:     p.Merge != nil,
		core.KindStacking:  p.Stacking != nil,
		core.KindSnake:     p.Snake != nil,
		core.KindScroller:  p.Scroller != nil,
		core.KindPairs:     p.Pairs != nil,
		core.KindTicTacToe: p.TicTacToe != nil,
	}
}

// Validate checks the kind, that no foreign section is present and that the
// engine accepts the resulting config
func (p *Preset) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: preset is nil", ErrInvalidPreset)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}
	if !p.Game.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidPreset, ErrUnknownKind, p.Game)
	}
	for kind, set := range p.sections() {
		if set && kind != p.Game {
			return fmt.Errorf("%w: %s section on a %s preset", ErrInvalidPreset, kind, p.Game)
		}
	}

	var err error
	switch cfg := p.EngineConfig().(type) {
	case merge.Config:
		err = cfg.Validate()
	case stacking.Config:
		err = cfg.Validate()
	case snake.Config:
		err = cfg.Validate()
	case scroller.Config:
		err = cfg.Validate()
	case pairs.Config:
		err = cfg.Validate()
	case tictactoe.Config:
		err = cfg.Validate()
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	return nil
}

// EngineConfig returns the engine config for the preset's kind, using the
// engine default when the section is missing. It returns nil for an unknown
// kind.
func (p *Preset) EngineConfig() any {
	switch p.Game {
	case core.KindMerge:
		if p.Merge != nil {
			return *p.Merge
		}
		return merge.DefaultConfig()
	case core.KindStacking:
		if p.Stacking != nil {
			return *p.Stacking
		}
		return stacking.DefaultConfig()
	case core.KindSnake:
		if p.Snake != nil {
			return *p.Snake
		}
		return snake.DefaultConfig()
	case core.KindScroller:
		if p.Scroller != nil {
			return *p.Scroller
		}
		return scroller.DefaultConfig()
	case core.KindPairs:
		if p.Pairs != nil {
			return *p.Pairs
		}
		return pairs.DefaultConfig()
	case core.KindTicTacToe:
		if p.TicTacToe != nil {
			return *p.TicTacToe
		}
		return tictactoe.DefaultConfig()
	}
	return nil
}
