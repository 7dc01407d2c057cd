package snake

import (
	"fmt"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// State is a snapshot of the snake game
type State struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Snake      []Point     `json:"snake"` // head first
	Food       Point       `json:"food"`
	Direction  Direction   `json:"direction"`
	Pending    Direction   `json:"pending"`
	Status     core.Status `json:"status"`
	Score      int         `json:"score"`
	ScoreDelta int         `json:"score_delta"`
}

// Head returns the first segment
func (s State) Head() Point {
	return s.Snake[0]
}

// Option customises an Engine
type Option func(*Engine)

// Engine runs one snake game
type Engine struct {
	cfg Config
	rng core.Random

	snake      []Point
	food       Point
	dir        Direction
	pending    Direction
	status     core.Status
	score      int
	scoreDelta int
}

// New validates cfg and returns an engine reset into Idle
func New(cfg Config, rng core.Random, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("snake: random source is required")
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

// Reset puts a one-cell snake at the start and places food
func (e *Engine) Reset() State {
	e.snake = []Point{e.cfg.Start}
	e.dir = e.cfg.Direction
	e.pending = e.cfg.Direction
	e.status = core.Idle
	e.score = 0
	e.scoreDelta = 0
	e.placeFood()
	return e.State()
}

// Start moves Idle to Running
func (e *Engine) Start() State {
	if e.status == core.Idle {
		e.status = core.Running
	}
	return e.State()
}

// State returns the current snapshot
func (e *Engine) State() State {
	return State{
		Width:      e.cfg.Width,
		Height:     e.cfg.Height,
		Snake:      append([]Point(nil), e.snake...),
		Food:       e.food,
		Direction:  e.dir,
		Pending:    e.pending,
		Status:     e.status,
		Score:      e.score,
		ScoreDelta: e.scoreDelta,
	}
}

// TickInterval is the fixed step time
func (e *Engine) TickInterval() time.Duration {
	return e.cfg.Interval.Std()
}

// ApplyInput queues a direction for the next tick. Reversing the current
// direction is ignored.
func (e *Engine) ApplyInput(d Direction) State {
	e.scoreDelta = 0
	if e.status.Terminal() || d < Up || d > Right {
		return e.State()
	}
	if d == e.dir.Opposite() {
		return e.State()
	}
	e.pending = d
	return e.State()
}

// Tick advances the snake one cell
func (e *Engine) Tick() State {
	e.scoreDelta = 0
	if e.status != core.Running {
		return e.State()
	}

	e.dir = e.pending

	dr, dc := e.dir.Delta()
	head := Point{Row: e.snake[0].Row + dr, Col: e.snake[0].Col + dc}
	if head.Row < 0 || head.Row >= e.cfg.Height || head.Col < 0 || head.Col >= e.cfg.Width || e.occupied(head) {
		e.status = core.Lost
		return e.State()
	}

	e.snake = append([]Point{head}, e.snake...)
	if head != e.food {
		e.snake = e.snake[:len(e.snake)-1]
		return e.State()
	}

	e.score += e.cfg.FoodReward
	e.scoreDelta = e.cfg.FoodReward
	if len(e.snake) == e.cfg.Width*e.cfg.Height {
		e.status = core.Won
		return e.State()
	}
	e.placeFood()
	return e.State()
}

func (e *Engine) occupied(p Point) bool {
	for _, s := range e.snake {
		if s == p {
			return true
		}
	}
	return false
}

// placeFood picks a uniformly random cell not covered by the snake
func (e *Engine) placeFood() {
	free := make([]Point, 0, e.cfg.Width*e.cfg.Height-len(e.snake))
	for r := 0; r < e.cfg.Height; r++ {
		for c := 0; c < e.cfg.Width; c++ {
			p := Point{Row: r, Col: c}
			if !e.occupied(p) {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return
	}
	e.food = free[e.rng.Intn(len(free))]
}
