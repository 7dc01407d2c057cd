package arcade

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/core"
	"github.com/wricardo/neurosphere-arcade/game/merge"
	"github.com/wricardo/neurosphere-arcade/game/pairs"
	"github.com/wricardo/neurosphere-arcade/game/scroller"
	"github.com/wricardo/neurosphere-arcade/game/snake"
	"github.com/wricardo/neurosphere-arcade/game/stacking"
	"github.com/wricardo/neurosphere-arcade/game/tictactoe"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNotTickDriven = errors.New("game is not tick driven")
)

// Snapshot is the engine-independent view of a game
type Snapshot struct {
	Kind       core.Kind   `json:"kind"`
	Status     core.Status `json:"status"`
	Score      int         `json:"score"`
	ScoreDelta int         `json:"score_delta"`
	State      any         `json:"state"`
}

// Masked hides information a player should not see yet. Only pair-match
// snapshots carry any.
func (s Snapshot) Masked() Snapshot {
	if ps, ok := s.State.(pairs.State); ok {
		s.State = ps.Masked()
	}
	return s
}

// Game is the uniform surface over one engine instance. It is not safe for
// concurrent use.
type Game interface {
	Kind() core.Kind
	Reset() Snapshot
	// Start moves a tick-driven game from Idle to Running. Event-driven games
	// start on their first input and return the current snapshot.
	Start() Snapshot
	Input(action string) (Snapshot, error)
	Tick() (Snapshot, error)
	State() Snapshot
	// TickInterval is zero for event-driven games
	TickInterval() time.Duration
	TickDriven() bool
}

// Deps are the collaborators injected into engines. Nil members get defaults.
type Deps struct {
	Random       core.Random
	Scheduler    core.Scheduler
	Scores       merge.BestScoreStore
	Now          func() time.Time
	OnStoreError func(error)
	// OnResolve receives snapshots produced by deferred transitions
	OnResolve func(Snapshot)
}

func (d Deps) withDefaults() Deps {
	if d.Random == nil {
		d.Random = core.NewRandom(0)
	}
	if d.Scheduler == nil {
		d.Scheduler = core.RealScheduler{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// New builds the game a preset describes
func New(p *Preset, deps Deps) (Game, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	deps = deps.withDefaults()

	switch cfg := p.EngineConfig().(type) {
	case merge.Config:
		var opts []merge.Option
		if deps.Scores != nil {
			opts = append(opts, merge.WithBestScoreStore(deps.Scores))
		}
		if deps.OnStoreError != nil {
			opts = append(opts, merge.WithStoreErrorHandler(deps.OnStoreError))
		}
		eng, err := merge.New(cfg, deps.Random, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create merge engine: %w", err)
		}
		return &mergeGame{eng: eng}, nil

	case stacking.Config:
		eng, err := stacking.New(cfg, deps.Random)
		if err != nil {
			return nil, fmt.Errorf("failed to create stacking engine: %w", err)
		}
		return &stackingGame{eng: eng}, nil

	case snake.Config:
		eng, err := snake.New(cfg, deps.Random)
		if err != nil {
			return nil, fmt.Errorf("failed to create snake engine: %w", err)
		}
		return &snakeGame{eng: eng}, nil

	case scroller.Config:
		eng, err := scroller.New(cfg, deps.Random)
		if err != nil {
			return nil, fmt.Errorf("failed to create scroller engine: %w", err)
		}
		return &scrollerGame{eng: eng}, nil

	case pairs.Config:
		opts := []pairs.Option{pairs.WithScheduler(deps.Scheduler), pairs.WithClock(deps.Now)}
		if deps.OnResolve != nil {
			onResolve := deps.OnResolve
			opts = append(opts, pairs.WithResolveHook(func(s pairs.State) {
				onResolve(pairsSnapshot(s))
			}))
		}
		eng, err := pairs.New(cfg, deps.Random, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create pairs engine: %w", err)
		}
		return &pairsGame{eng: eng}, nil

	case tictactoe.Config:
		eng, err := tictactoe.New(cfg, deps.Random)
		if err != nil {
			return nil, fmt.Errorf("failed to create tictactoe engine: %w", err)
		}
		return &tictactoeGame{eng: eng}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Game)
}

func normalize(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}

func unknownAction(kind core.Kind, action string) error {
	return fmt.Errorf("%w: %q for %s", ErrUnknownAction, action, kind)
}

// eventDriven supplies the tick methods of games without a clock
type eventDriven struct{}

func (eventDriven) TickInterval() time.Duration { return 0 }
func (eventDriven) TickDriven() bool            { return false }

type mergeGame struct {
	eventDriven
	eng *merge.Engine
}

func mergeSnapshot(s merge.State) Snapshot {
	return Snapshot{Kind: core.KindMerge, Status: s.Status, Score: s.Score, ScoreDelta: s.ScoreDelta, State: s}
}

func (g *mergeGame) Kind() core.Kind         { return core.KindMerge }
func (g *mergeGame) Reset() Snapshot         { return mergeSnapshot(g.eng.Reset()) }
func (g *mergeGame) Start() Snapshot         { return g.State() }
func (g *mergeGame) State() Snapshot         { return mergeSnapshot(g.eng.State()) }
func (g *mergeGame) Tick() (Snapshot, error) { return g.State(), ErrNotTickDriven }

func (g *mergeGame) Input(action string) (Snapshot, error) {
	dir, ok := merge.ParseDirection(normalize(action))
	if !ok {
		return g.State(), unknownAction(core.KindMerge, action)
	}
	return mergeSnapshot(g.eng.ApplyInput(dir)), nil
}

type stackingGame struct {
	eng *stacking.Engine
}

func stackingSnapshot(s stacking.State) Snapshot {
	return Snapshot{Kind: core.KindStacking, Status: s.Status, Score: s.Score, ScoreDelta: s.ScoreDelta, State: s}
}

func (g *stackingGame) Kind() core.Kind             { return core.KindStacking }
func (g *stackingGame) Reset() Snapshot             { return stackingSnapshot(g.eng.Reset()) }
func (g *stackingGame) Start() Snapshot             { return stackingSnapshot(g.eng.Start()) }
func (g *stackingGame) State() Snapshot             { return stackingSnapshot(g.eng.State()) }
func (g *stackingGame) Tick() (Snapshot, error)     { return stackingSnapshot(g.eng.Tick()), nil }
func (g *stackingGame) TickInterval() time.Duration { return g.eng.TickInterval() }
func (g *stackingGame) TickDriven() bool            { return true }

func (g *stackingGame) Input(action string) (Snapshot, error) {
	a, ok := stacking.ParseAction(normalize(action))
	if !ok {
		return g.State(), unknownAction(core.KindStacking, action)
	}
	return stackingSnapshot(g.eng.ApplyInput(a)), nil
}

type snakeGame struct {
	eng *snake.Engine
}

func snakeSnapshot(s snake.State) Snapshot {
	return Snapshot{Kind: core.KindSnake, Status: s.Status, Score: s.Score, ScoreDelta: s.ScoreDelta, State: s}
}

func (g *snakeGame) Kind() core.Kind             { return core.KindSnake }
func (g *snakeGame) Reset() Snapshot             { return snakeSnapshot(g.eng.Reset()) }
func (g *snakeGame) Start() Snapshot             { return snakeSnapshot(g.eng.Start()) }
func (g *snakeGame) State() Snapshot             { return snakeSnapshot(g.eng.State()) }
func (g *snakeGame) Tick() (Snapshot, error)     { return snakeSnapshot(g.eng.Tick()), nil }
func (g *snakeGame) TickInterval() time.Duration { return g.eng.TickInterval() }
func (g *snakeGame) TickDriven() bool            { return true }

func (g *snakeGame) Input(action string) (Snapshot, error) {
	dir, ok := snake.ParseDirection(normalize(action))
	if !ok {
		return g.State(), unknownAction(core.KindSnake, action)
	}
	return snakeSnapshot(g.eng.ApplyInput(dir)), nil
}

type scrollerGame struct {
	eng *scroller.Engine
}

func scrollerSnapshot(s scroller.State) Snapshot {
	return Snapshot{Kind: core.KindScroller, Status: s.Status, Score: s.Score, ScoreDelta: s.ScoreDelta, State: s}
}

func (g *scrollerGame) Kind() core.Kind             { return core.KindScroller }
func (g *scrollerGame) Reset() Snapshot             { return scrollerSnapshot(g.eng.Reset()) }
func (g *scrollerGame) Start() Snapshot             { return scrollerSnapshot(g.eng.Start()) }
func (g *scrollerGame) State() Snapshot             { return scrollerSnapshot(g.eng.State()) }
func (g *scrollerGame) Tick() (Snapshot, error)     { return scrollerSnapshot(g.eng.Tick()), nil }
func (g *scrollerGame) TickInterval() time.Duration { return g.eng.TickInterval() }
func (g *scrollerGame) TickDriven() bool            { return true }

func (g *scrollerGame) Input(action string) (Snapshot, error) {
	a, ok := scroller.ParseAction(normalize(action))
	if !ok {
		return g.State(), unknownAction(core.KindScroller, action)
	}
	return scrollerSnapshot(g.eng.ApplyInput(a)), nil
}

type pairsGame struct {
	eventDriven
	eng *pairs.Engine
}

func pairsSnapshot(s pairs.State) Snapshot {
	return Snapshot{Kind: core.KindPairs, Status: s.Status, Score: s.Score, ScoreDelta: s.ScoreDelta, State: s}
}

func (g *pairsGame) Kind() core.Kind         { return core.KindPairs }
func (g *pairsGame) Reset() Snapshot         { return pairsSnapshot(g.eng.Reset()) }
func (g *pairsGame) Start() Snapshot         { return g.State() }
func (g *pairsGame) State() Snapshot         { return pairsSnapshot(g.eng.State()) }
func (g *pairsGame) Tick() (Snapshot, error) { return g.State(), ErrNotTickDriven }

func (g *pairsGame) Input(action string) (Snapshot, error) {
	index, err := strconv.Atoi(normalize(action))
	if err != nil {
		return g.State(), unknownAction(core.KindPairs, action)
	}
	return pairsSnapshot(g.eng.ApplyInput(index)), nil
}

type tictactoeGame struct {
	eventDriven
	eng *tictactoe.Engine
}

func tictactoeSnapshot(s tictactoe.State) Snapshot {
	return Snapshot{Kind: core.KindTicTacToe, Status: s.Status, Score: s.Score, ScoreDelta: s.ScoreDelta, State: s}
}

func (g *tictactoeGame) Kind() core.Kind         { return core.KindTicTacToe }
func (g *tictactoeGame) Reset() Snapshot         { return tictactoeSnapshot(g.eng.Reset()) }
func (g *tictactoeGame) Start() Snapshot         { return g.State() }
func (g *tictactoeGame) State() Snapshot         { return tictactoeSnapshot(g.eng.State()) }
func (g *tictactoeGame) Tick() (Snapshot, error) { return g.State(), ErrNotTickDriven }

// Input takes a cell index, or "solo"/"versus" to switch opponent mode
func (g *tictactoeGame) Input(action string) (Snapshot, error) {
	switch normalize(action) {
	case "solo":
		return tictactoeSnapshot(g.eng.SetOpponent(false)), nil
	case "versus":
		return tictactoeSnapshot(g.eng.SetOpponent(true)), nil
	}
	cell, err := strconv.Atoi(normalize(action))
	if err != nil {
		return g.State(), unknownAction(core.KindTicTacToe, action)
	}
	return tictactoeSnapshot(g.eng.ApplyInput(cell)), nil
}
