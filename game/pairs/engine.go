package pairs

import (
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// Card is one card on the table
type Card struct {
	Symbol  string `json:"symbol"`
	FaceUp  bool   `json:"face_up"`
	Matched bool   `json:"matched"`
}

// State is a snapshot of the table
type State struct {
	Cards      []Card        `json:"cards"`
	Pending    []int         `json:"pending"` // face-up cards awaiting resolution
	Status     core.Status   `json:"status"`
	Score      int           `json:"score"`
	ScoreDelta int           `json:"score_delta"`
	Moves      int           `json:"moves"`
	Matches    int           `json:"matches"`
	Pairs      int           `json:"pairs"`
	Elapsed    core.Duration `json:"elapsed"`
}

// Masked returns a copy with face-down symbols hidden
func (s State) Masked() State {
	out := s
	out.Cards = make([]Card, len(s.Cards))
	for i, c := range s.Cards {
		if !c.FaceUp && !c.Matched {
			c.Symbol = ""
		}
		out.Cards[i] = c
	}
	out.Pending = append([]int(nil), s.Pending...)
	return out
}

// Option customises an Engine
type Option func(*Engine)

// WithScheduler sets where resolution timers run. Defaults to wall clock.
// Callbacks may fire on any goroutine; the engine serialises them with
// its own calls.
func WithScheduler(s core.Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithClock sets the time source used for elapsed time
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithResolveHook is called with the new state after every timer resolution
func WithResolveHook(fn func(State)) Option {
	return func(e *Engine) { e.onResolve = fn }
}

// Engine runs one memory table. It is safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	cfg       Config
	rng       core.Random
	sched     core.Scheduler
	now       func() time.Time
	onResolve func(State)

	cards      []Card
	pending    []int
	timer      core.Timer
	generation uint64
	status     core.Status
	score      int
	scoreDelta int
	moves      int
	matches    int
	startedAt  time.Time
	finishedAt time.Time
}

// New validates cfg and returns an engine reset into Idle
func New(cfg Config, rng core.Random, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("pairs: random source is required")
	}
	e := &Engine{
		cfg:   cfg,
		rng:   rng,
		sched: core.RealScheduler{},
		now:   time.Now,
	}
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

// Reset cancels any pending resolution and deals a fresh shuffled table
func (e *Engine) Reset() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.generation++

	e.cards = make([]Card, 0, len(e.cfg.Symbols)*2)
	for _, s := range e.cfg.Symbols {
		e.cards = append(e.cards, Card{Symbol: s}, Card{Symbol: s})
	}
	for i := len(e.cards) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		e.cards[i], e.cards[j] = e.cards[j], e.cards[i]
	}

	e.pending = nil
	e.status = core.Idle
	e.score = 0
	e.scoreDelta = 0
	e.moves = 0
	e.matches = 0
	e.startedAt = time.Time{}
	e.finishedAt = time.Time{}
	return e.state()
}

// State returns the current snapshot
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state()
}

func (e *Engine) state() State {
	var elapsed time.Duration
	switch {
	case !e.finishedAt.IsZero():
		elapsed = e.finishedAt.Sub(e.startedAt)
	case !e.startedAt.IsZero():
		elapsed = e.now().Sub(e.startedAt)
	}

	return State{
		Cards:      append([]Card(nil), e.cards...),
		Pending:    append([]int(nil), e.pending...),
		Status:     e.status,
		Score:      e.score,
		ScoreDelta: e.scoreDelta,
		Moves:      e.moves,
		Matches:    e.matches,
		Pairs:      len(e.cfg.Symbols),
		Elapsed:    core.Duration(elapsed),
	}
}

// ApplyInput flips the card at index. Flips are ignored while two cards are
// pending, on cards already face up or matched, and after the game is won.
func (e *Engine) ApplyInput(index int) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scoreDelta = 0
	if e.status.Terminal() || index < 0 || index >= len(e.cards) || len(e.pending) >= 2 {
		return e.state()
	}
	card := &e.cards[index]
	if card.FaceUp || card.Matched {
		return e.state()
	}

	if e.status == core.Idle {
		e.status = core.Running
		e.startedAt = e.now()
	}

	card.FaceUp = true
	e.pending = append(e.pending, index)
	if len(e.pending) < 2 {
		return e.state()
	}

	e.moves++
	gen := e.generation
	a, b := e.pending[0], e.pending[1]
	if e.cards[a].Symbol == e.cards[b].Symbol {
		e.timer = e.sched.AfterFunc(e.cfg.MatchDelay.Std(), func() { e.resolve(gen, true) })
	} else {
		e.timer = e.sched.AfterFunc(e.cfg.MismatchDelay.Std(), func() { e.resolve(gen, false) })
	}
	return e.state()
}

func (e *Engine) resolve(gen uint64, match bool) {
	e.mu.Lock()
	if gen != e.generation || len(e.pending) != 2 {
		e.mu.Unlock()
		return
	}
	a, b := e.pending[0], e.pending[1]
	if match {
		e.cards[a].Matched = true
		e.cards[b].Matched = true
		e.matches++
		e.score++
		e.scoreDelta = 1
		if e.matches == len(e.cfg.Symbols) {
			e.status = core.Won
			e.finishedAt = e.now()
		}
	} else {
		e.cards[a].FaceUp = false
		e.cards[b].FaceUp = false
		e.scoreDelta = 0
	}
	e.pending = nil
	e.timer = nil
	state := e.state()
	e.mu.Unlock()

	if e.onResolve != nil {
		e.onResolve(state)
	}
}
