package stacking

import (
	"fmt"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// Action is a player input
type Action int

const (
	MoveLeft Action = iota
	MoveRight
	RotateCW
	SoftDrop
)

// ParseAction maps left, right, rotate and down (or softdrop) to an Action
func ParseAction(s string) (Action, bool) {
	switch s {
	case "left":
		return MoveLeft, true
	case "right":
		return MoveRight, true
	case "rotate":
		return RotateCW, true
	case "down", "softdrop":
		return SoftDrop, true
	}
	return MoveLeft, false
}

// State is a snapshot of the stacking board
type State struct {
	Board      [][]int     `json:"board"`
	Active     *Piece      `json:"active,omitempty"`
	Status     core.Status `json:"status"`
	Score      int         `json:"score"`
	ScoreDelta int         `json:"score_delta"`
	Lines      int         `json:"lines"`
	Level      int         `json:"level"`
	Cleared    int         `json:"cleared"` // rows removed by the last lock
}

// Overlay returns the board with the active piece drawn in
func (s State) Overlay() [][]int {
	if s.Active == nil {
		return cloneGrid(s.Board)
	}
	return Lock(s.Board, *s.Active)
}

// Option customises an Engine
type Option func(*Engine)

// Engine runs one stacking game
type Engine struct {
	cfg Config
	rng core.Random

	board      [][]int
	active     *Piece
	status     core.Status
	score      int
	scoreDelta int
	lines      int
	level      int
	cleared    int
}

// New validates cfg and returns an engine reset into Idle
func New(cfg Config, rng core.Random, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("stacking: random source is required")
	}
	e := &Engine{cfg: cfg, rng: rng}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e, nil
}

// Config returns the rules the engine was built with
func (e *Engine) Config() Config {
	return e.cfg
}

// Reset empties the board and returns to Idle with no active piece
func (e *Engine) Reset() State {
	e.board = newGrid(e.cfg.Width, e.cfg.Height)
	e.active = nil
	e.status = core.Idle
	e.score = 0
	e.scoreDelta = 0
	e.lines = 0
	e.level = 1
	e.cleared = 0
	return e.State()
}

// Start moves Idle to Running and spawns the first piece
func (e *Engine) Start() State {
	if e.status != core.Idle {
		return e.State()
	}
	e.status = core.Running
	e.spawn()
	return e.State()
}

// State returns the current snapshot
func (e *Engine) State() State {
	s := State{
		Board:      cloneGrid(e.board),
		Status:     e.status,
		Score:      e.score,
		ScoreDelta: e.scoreDelta,
		Lines:      e.lines,
		Level:      e.level,
		Cleared:    e.cleared,
	}
	if e.active != nil {
		p := e.active.clone()
		s.Active = &p
	}
	return s
}

// TickInterval is the drop speed at the current level
func (e *Engine) TickInterval() time.Duration {
	d := e.cfg.BaseInterval.Std() - time.Duration(e.level)*e.cfg.IntervalStep.Std()
	if d < e.cfg.MinInterval.Std() {
		return e.cfg.MinInterval.Std()
	}
	return d
}

// Tick drops the active piece one row, locking it when it cannot move
func (e *Engine) Tick() State {
	e.scoreDelta = 0
	e.cleared = 0
	if e.status != core.Running || e.active == nil {
		return e.State()
	}

	if Fits(e.board, e.active.Shape, e.active.Row+1, e.active.Col) {
		e.active.Row++
		return e.State()
	}

	board, cleared := ClearLines(Lock(e.board, *e.active))
	e.board = board
	e.active = nil
	if cleared > 0 {
		e.scoreDelta = cleared * e.cfg.LineScore * e.level
		e.score += e.scoreDelta
		e.cleared = cleared
		e.lines += cleared
		e.level = e.lines/e.cfg.LinesPerLevel + 1
	}

	e.spawn()
	return e.State()
}

// ApplyInput moves or rotates the active piece. Placements that leave the
// board or overlap settled cells are rejected without any change.
func (e *Engine) ApplyInput(a Action) State {
	e.scoreDelta = 0
	e.cleared = 0
	if e.status != core.Running || e.active == nil {
		return e.State()
	}

	shape, row, col := e.active.Shape, e.active.Row, e.active.Col
	switch a {
	case MoveLeft:
		col--
	case MoveRight:
		col++
	case RotateCW:
		shape = Rotate(shape)
	case SoftDrop:
		row++
	default:
		return e.State()
	}

	if !Fits(e.board, shape, row, col) {
		return e.State()
	}
	e.active.Shape, e.active.Row, e.active.Col = shape, row, col
	return e.State()
}

// spawn places a random piece at the top centre, or ends the game
func (e *Engine) spawn() {
	t := Tetrominoes[e.rng.Intn(len(Tetrominoes))]
	p := Piece{
		Kind:  t.Name,
		Color: t.Color,
		Shape: cloneGrid(t.Shape),
		Row:   0,
		Col:   e.cfg.Width/2 - 1,
	}
	if w := len(p.Shape[0]); p.Col+w > e.cfg.Width {
		p.Col = e.cfg.Width - w
	}

	if !Fits(e.board, p.Shape, p.Row, p.Col) {
		e.status = core.Lost
		e.active = nil
		return
	}
	e.active = &p
}
