package tictactoe

import (
	"errors"
	"fmt"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid tictactoe config")

// Config selects the opponent
type Config struct {
	VsOpponent bool `json:"vs_opponent"`
	Opponent   Mark `json:"opponent"`
}

// DefaultConfig plays against the heuristic opponent as O
func DefaultConfig() Config {
	return Config{VsOpponent: true, Opponent: O}
}

// Validate checks the opponent mark
func (c Config) Validate() error {
	if c.Opponent != X && c.Opponent != O {
		return fmt.Errorf("%w: opponent must be X or O, got %q", ErrInvalidConfig, c.Opponent)
	}
	return nil
}

// Scoreboard counts finished games across resets
type Scoreboard struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Ties int `json:"ties"`
}

// State is a snapshot of the board
type State struct {
	Board      []Mark      `json:"board"`
	Turn       Mark        `json:"turn"`
	Winner     Mark        `json:"winner,omitempty"`
	Tie        bool        `json:"tie"`
	Line       []int       `json:"line,omitempty"`
	Moves      int         `json:"moves"`
	VsOpponent bool        `json:"vs_opponent"`
	Status     core.Status `json:"status"`
	Score      int         `json:"score"`
	ScoreDelta int         `json:"score_delta"`
	Scoreboard Scoreboard  `json:"scoreboard"`
}

// Option customises an Engine
type Option func(*Engine)

// Engine runs one game of tic-tac-toe
type Engine struct {
	cfg Config
	rng core.Random

	board      []Mark
	turn       Mark
	winner     Mark
	tie        bool
	line       []int
	moves      int
	status     core.Status
	score      int
	scoreDelta int
	scoreboard Scoreboard
}

// New validates cfg and returns an engine reset into Idle
func New(cfg Config, rng core.Random, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("tictactoe: random source is required")
	}
	e := &Engine{cfg: cfg, rng: rng}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e, nil
}

// Config returns the current opponent settings
func (e *Engine) Config() Config {
	return e.cfg
}

// Reset clears the board; the scoreboard is kept. An opponent playing X
// opens immediately and the game stays Idle until the human moves.
func (e *Engine) Reset() State {
	e.board = make([]Mark, 9)
	e.turn = X
	e.winner = Empty
	e.tie = false
	e.line = nil
	e.moves = 0
	e.status = core.Idle
	e.scoreDelta = 0

	if e.cfg.VsOpponent && e.cfg.Opponent == X {
		e.opponentMove()
		e.status = core.Idle
	}
	return e.State()
}

// SetOpponent switches between two-player and opponent mode and resets
func (e *Engine) SetOpponent(enabled bool) State {
	e.cfg.VsOpponent = enabled
	return e.Reset()
}

// State returns the current snapshot
func (e *Engine) State() State {
	return State{
		Board:      append([]Mark(nil), e.board...),
		Turn:       e.turn,
		Winner:     e.winner,
		Tie:        e.tie,
		Line:       append([]int(nil), e.line...),
		Moves:      e.moves,
		VsOpponent: e.cfg.VsOpponent,
		Status:     e.status,
		Score:      e.score,
		ScoreDelta: e.scoreDelta,
		Scoreboard: e.scoreboard,
	}
}

// ApplyInput places the current player's mark. Occupied cells, out of range
// cells and finished games are ignored.
func (e *Engine) ApplyInput(cell int) State {
	e.scoreDelta = 0
	if e.status.Terminal() || cell < 0 || cell >= len(e.board) || e.board[cell] != Empty {
		return e.State()
	}
	if e.cfg.VsOpponent && e.turn == e.cfg.Opponent {
		return e.State()
	}

	e.place(cell)
	if !e.status.Terminal() && e.cfg.VsOpponent {
		e.opponentMove()
	}
	return e.State()
}

func (e *Engine) opponentMove() {
	cell := ChooseMove(e.board, e.cfg.Opponent, e.rng)
	if cell >= 0 {
		e.place(cell)
	}
}

func (e *Engine) place(cell int) {
	e.board[cell] = e.turn
	e.moves++
	e.status = core.Running

	if winner, line := Winner(e.board); winner != Empty {
		e.finish(winner, line)
		return
	}
	if Full(e.board) {
		e.tie = true
		e.scoreboard.Ties++
		e.status = core.Won
		return
	}
	e.turn = e.turn.Other()
}

func (e *Engine) finish(winner Mark, line []int) {
	e.winner = winner
	e.line = line
	e.status = core.Won
	if winner == X {
		e.scoreboard.X++
	} else {
		e.scoreboard.O++
	}
	if winner == e.human() {
		e.score++
		e.scoreDelta = 1
	}
}

func (e *Engine) human() Mark {
	if e.cfg.VsOpponent {
		return e.cfg.Opponent.Other()
	}
	return X
}
