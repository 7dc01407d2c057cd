package merge

import (
	"fmt"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// BestScoreKey is the key the best score is stored under
const BestScoreKey = "merge"

// BestScoreStore persists a single best score per key
type BestScoreStore interface {
	Load(key string) (int, error)
	Save(key string, score int) error
}

// State is a snapshot of a merge board. It never aliases engine memory.
type State struct {
	Board      [][]int     `json:"board"`
	Status     core.Status `json:"status"`
	Score      int         `json:"score"`
	ScoreDelta int         `json:"score_delta"`
	BestScore  int         `json:"best_score"`
	Moves      int         `json:"moves"`
	MaxTile    int         `json:"max_tile"`
	Continued  bool        `json:"continued"` // still sliding after Won
}

// Option customises an Engine
type Option func(*Engine)

// WithBestScoreStore loads and saves the best score through store
func WithBestScoreStore(store BestScoreStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithStoreErrorHandler receives best score store failures.
// Without it they are ignored; transitions never fail.
func WithStoreErrorHandler(fn func(error)) Option {
	return func(e *Engine) { e.onStoreError = fn }
}

// Engine runs one merge board
type Engine struct {
	cfg          Config
	rng          core.Random
	store        BestScoreStore
	onStoreError func(error)

	board      [][]int
	status     core.Status
	score      int
	scoreDelta int
	bestScore  int
	moves      int
	continued  bool
}

// New validates cfg and returns an engine reset into Idle
func New(cfg Config, rng core.Random, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("merge: random source is required")
	}

	e := &Engine{cfg: cfg, rng: rng}
	for _, opt := range opts {
		opt(e)
	}

	if e.store != nil {
		best, err := e.store.Load(BestScoreKey)
		if err != nil {
			e.storeError(fmt.Errorf("load best score: %w", err))
		} else {
			e.bestScore = best
		}
	}

	e.Reset()
	return e, nil
}

// Config returns the rules the engine was built with
func (e *Engine) Config() Config {
	return e.cfg
}

// Reset clears the board, spawns the start tiles and returns to Idle.
// The best score is kept.
func (e *Engine) Reset() State {
	e.board = newBoard(e.cfg.Size)
	e.status = core.Idle
	e.score = 0
	e.scoreDelta = 0
	e.moves = 0
	e.continued = false
	for i := 0; i < e.cfg.StartTiles; i++ {
		e.spawn()
	}
	return e.State()
}

// State returns the current snapshot
func (e *Engine) State() State {
	return State{
		Board:      cloneBoard(e.board),
		Status:     e.status,
		Score:      e.score,
		ScoreDelta: e.scoreDelta,
		BestScore:  e.bestScore,
		Moves:      e.moves,
		MaxTile:    maxTile(e.board),
		Continued:  e.continued,
	}
}

// ApplyInput slides the board. Moves that change nothing are no-ops and do
// not spawn a tile. Nothing happens once the board is Lost.
func (e *Engine) ApplyInput(dir Direction) State {
	e.scoreDelta = 0
	if e.status == core.Lost || dir < Left || dir > Down {
		return e.State()
	}

	next, gained := Slide(e.board, dir)
	if sameBoard(e.board, next) {
		return e.State()
	}

	wasWon := e.status == core.Won
	e.board = next
	e.score += gained
	e.scoreDelta = gained
	e.moves++
	e.spawn()

	switch {
	case maxTile(e.board) >= e.cfg.WinTile:
		e.continued = wasWon
		e.status = core.Won
	case e.status == core.Idle:
		e.status = core.Running
	}

	if !CanMove(e.board) {
		e.status = core.Lost
	}

	if e.score > e.bestScore {
		e.bestScore = e.score
		if e.store != nil {
			if err := e.store.Save(BestScoreKey, e.bestScore); err != nil {
				e.storeError(fmt.Errorf("save best score: %w", err))
			}
		}
	}

	return e.State()
}

func (e *Engine) spawn() {
	var empty [][2]int
	for r, row := range e.board {
		for c, v := range row {
			if v == 0 {
				empty = append(empty, [2]int{r, c})
			}
		}
	}
	if len(empty) == 0 {
		return
	}

	cell := empty[e.rng.Intn(len(empty))]
	value := 2
	if e.rng.Intn(100) < e.cfg.FourChance {
		value = 4
	}
	e.board[cell[0]][cell[1]] = value
}

func (e *Engine) storeError(err error) {
	if e.onStoreError != nil {
		e.onStoreError(err)
	}
}
