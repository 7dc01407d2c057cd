package scroller

import (
	"fmt"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// Action is a player input. Jump is the only one.
type Action int

const Jump Action = 0

// ParseAction accepts jump or flap
func ParseAction(s string) (Action, bool) {
	switch s {
	case "jump", "flap":
		return Jump, true
	}
	return Jump, false
}

// Obstacle is a column with one vertical gap starting at GapStart
type Obstacle struct {
	X        float64 `json:"x"`
	GapStart float64 `json:"gap_start"`
	GapSize  float64 `json:"gap_size"`
	Passed   bool    `json:"passed"`
}

// State is a snapshot of the scroller
type State struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	ActorX     float64     `json:"actor_x"`
	ActorY     float64     `json:"actor_y"`
	ActorSize  float64     `json:"actor_size"`
	Velocity   float64     `json:"velocity"`
	Obstacles  []Obstacle  `json:"obstacles"`
	Status     core.Status `json:"status"`
	Score      int         `json:"score"`
	ScoreDelta int         `json:"score_delta"`
	Ticks      int         `json:"ticks"`
}

// Option customises an Engine
type Option func(*Engine)

// Engine runs one scroller game
type Engine struct {
	cfg Config
	rng core.Random

	y          float64
	velocity   float64
	obstacles  []Obstacle
	status     core.Status
	score      int
	scoreDelta int
	ticks      int
}

// New validates cfg and returns an engine reset into Idle
func New(cfg Config, rng core.Random, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("scroller: random source is required")
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

// Reset returns the actor to StartY at rest with no obstacles
func (e *Engine) Reset() State {
	e.y = e.cfg.StartY
	e.velocity = 0
	e.obstacles = nil
	e.status = core.Idle
	e.score = 0
	e.scoreDelta = 0
	e.ticks = 0
	return e.State()
}

// Start moves Idle to Running and spawns the first obstacle at the right edge
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
	return State{
		Width:      e.cfg.Width,
		Height:     e.cfg.Height,
		ActorX:     e.cfg.ActorX,
		ActorY:     e.y,
		ActorSize:  e.cfg.ActorSize,
		Velocity:   e.velocity,
		Obstacles:  append([]Obstacle(nil), e.obstacles...),
		Status:     e.status,
		Score:      e.score,
		ScoreDelta: e.scoreDelta,
		Ticks:      e.ticks,
	}
}

// TickInterval is the fixed physics step
func (e *Engine) TickInterval() time.Duration {
	return e.cfg.Interval.Std()
}

// ApplyInput replaces the velocity with the jump impulse while Running
func (e *Engine) ApplyInput(a Action) State {
	e.scoreDelta = 0
	if e.status != core.Running || a != Jump {
		return e.State()
	}
	e.velocity = e.cfg.JumpImpulse
	return e.State()
}

// Tick advances physics and obstacles by one step
func (e *Engine) Tick() State {
	e.scoreDelta = 0
	if e.status != core.Running {
		return e.State()
	}
	e.ticks++

	e.velocity += e.cfg.Gravity
	e.y += e.velocity
	if e.y < 0 || e.y+e.cfg.ActorSize > e.cfg.Height {
		e.status = core.Lost
		return e.State()
	}

	kept := e.obstacles[:0]
	for _, o := range e.obstacles {
		o.X -= e.cfg.ScrollSpeed
		if o.X+e.cfg.ObstacleWidth >= 0 {
			kept = append(kept, o)
		}
	}
	e.obstacles = kept
	if len(e.obstacles) == 0 || e.obstacles[len(e.obstacles)-1].X < e.cfg.SpawnThreshold {
		e.spawn()
	}

	left, right := e.cfg.ActorX, e.cfg.ActorX+e.cfg.ActorSize
	top, bottom := e.y, e.y+e.cfg.ActorSize
	for i := range e.obstacles {
		o := &e.obstacles[i]
		if right > o.X && left < o.X+e.cfg.ObstacleWidth {
			if top < o.GapStart || bottom > o.GapStart+o.GapSize {
				e.status = core.Lost
				return e.State()
			}
		}
	}

	for i := range e.obstacles {
		o := &e.obstacles[i]
		if !o.Passed && o.X+e.cfg.ObstacleWidth < left {
			o.Passed = true
			e.score++
			e.scoreDelta++
		}
	}
	return e.State()
}

func (e *Engine) spawn() {
	gap := e.cfg.GapMin
	if r := int(e.cfg.GapRange); r > 0 {
		gap += float64(e.rng.Intn(r))
	}
	e.obstacles = append(e.obstacles, Obstacle{
		X:        e.cfg.Width,
		GapStart: gap,
		GapSize:  e.cfg.GapSize,
	})
}
