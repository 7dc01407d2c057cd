package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/neurosphere-arcade/game/arcade"
	"github.com/wricardo/neurosphere-arcade/game/core"
	"github.com/wricardo/neurosphere-arcade/game/merge"
	"github.com/wricardo/neurosphere-arcade/game/tictactoe"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager

	logger    *zap.SugaredLogger
	publisher Publisher
	metrics   Metrics
	scores    merge.BestScoreStore
	newRandom func() core.Random
	scheduler core.Scheduler
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	clocks sync.WaitGroup
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithLogger sets the structured logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *gameServiceImpl) { s.logger = logger }
}

// WithPublisher sets the receiver of state changes. Publish is called while
// the session lock is held and must not block.
func WithPublisher(p Publisher) Option {
	return func(s *gameServiceImpl) { s.publisher = p }
}

// WithMetrics sets the gameplay metrics sink
func WithMetrics(m Metrics) Option {
	return func(s *gameServiceImpl) { s.metrics = m }
}

// WithScores sets the best-score store handed to merge games
func WithScores(store merge.BestScoreStore) Option {
	return func(s *gameServiceImpl) { s.scores = store }
}

// WithRandomSource sets the factory used for each new session's random source
func WithRandomSource(f func() core.Random) Option {
	return func(s *gameServiceImpl) { s.newRandom = f }
}

// WithScheduler sets the scheduler behind deferred engine transitions
func WithScheduler(sched core.Scheduler) Option {
	return func(s *gameServiceImpl) { s.scheduler = sched }
}

// WithClock sets the wall clock used for timestamps and expiry
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) { s.now = now }
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:  sessions,
		configs:   configs,
		logger:    zap.NewNop().Sugar(),
		publisher: nopPublisher{},
		metrics:   nopMetrics{},
		newRandom: func() core.Random { return core.NewRandom(0) },
		scheduler: core.RealScheduler{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

type nopPublisher struct{}

func (nopPublisher) Publish(Update) {}

type nopMetrics struct{}

func (nopMetrics) ObserveInput(core.Kind)                 {}
func (nopMetrics) ObserveTick(core.Kind, time.Duration)   {}
func (nopMetrics) ObserveFinished(core.Kind, core.Status) {}
func (nopMetrics) SetActiveSessions(int)                  {}

// getConfigID returns the config_id for a preset, used for consistent API responses
func (s *gameServiceImpl) getConfigID(preset *arcade.Preset) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == preset.Name {
				return cfg.ConfigID
			}
		}
	}
	return string(preset.Game)
}

// CreateSession creates a new game session from a preset. An empty configID
// selects the default preset.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configID string) (*SessionInfo, error) {
	configID = strings.TrimSpace(configID)

	var preset *arcade.Preset
	if configID != "" {
		loaded, err := s.configs.LoadConfig(configID)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var ids []string
					for _, cfg := range availableConfigs {
						ids = append(ids, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found, available configs: %v: %w", configID, ids, ErrConfigNotFound)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configID, err)
		}
		preset = loaded
	} else {
		preset = s.configs.GetDefault()
		if preset == nil {
			return nil, fmt.Errorf("no default config: %w", ErrConfigNotFound)
		}
		configID = s.getConfigID(preset)
	}

	sess, err := s.sessions.Create("", configID, preset, s.buildGame)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.SetActiveSessions(s.sessions.Count())
	s.logger.Infow("session created", "session", sess.ID, "game", preset.Game, "config", configID)

	return s.sessionInfo(sess), nil
}

// buildGame wires a session's engine to the session lock
func (s *gameServiceImpl) buildGame(sess *Session) (arcade.Game, error) {
	return arcade.New(sess.Preset, arcade.Deps{
		Random:    s.newRandom(),
		Scheduler: core.LockedScheduler{Locker: &sess.Mu, Inner: s.scheduler},
		Scores:    s.scores,
		Now:       s.now,
		OnStoreError: func(err error) {
			s.logger.Warnw("best score store failed", "session", sess.ID, "error", err)
		},
		OnResolve: func(snap arcade.Snapshot) {
			// sess.Mu is held by the scheduler callback
			before := arcade.Snapshot{Kind: snap.Kind, Status: core.Running, Score: snap.Score - snap.ScoreDelta}
			events := s.events(before, snap)
			s.finished(before, snap)
			s.publish(sess, snap, events)
		},
	})
}

// sessionInfo snapshots a session under its lock
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	return &SessionInfo{
		ID:             sess.ID,
		ConfigID:       sess.ConfigID,
		Game:           sess.Preset.Game,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		ClockRunning:   sess.clock != nil,
		Snapshot:       sess.Game.State().Masked(),
		Preset:         sess.Preset,
	}
}

// session looks a session up and marks it accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession stops the session clock and removes the session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	sess.Mu.Lock()
	s.stopClock(sess)
	sess.Mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	s.metrics.SetActiveSessions(s.sessions.Count())
	s.logger.Infow("session deleted", "session", sessionID)
	return nil
}

// ExpireSessions deletes sessions idle for longer than maxAge
func (s *gameServiceImpl) ExpireSessions(ctx context.Context, maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, sess := range s.sessions.List() {
		sess.Mu.Lock()
		expired := sess.LastAccessedAt.Before(cutoff)
		sess.Mu.Unlock()
		if !expired {
			continue
		}
		if err := s.DeleteSession(ctx, sess.ID); err == nil {
			removed++
		}
	}
	return removed
}

// Input applies one player action
func (s *gameServiceImpl) Input(ctx context.Context, sessionID, action string) (*ActionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	before := sess.Game.State()
	snap, err := sess.Game.Input(action)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", action, err)
	}

	sess.History = append(sess.History, ActionEntry{
		Number:     len(sess.History) + 1,
		Action:     strings.ToLower(strings.TrimSpace(action)),
		Status:     snap.Status,
		Score:      snap.Score,
		ScoreDelta: snap.ScoreDelta,
		Timestamp:  s.now(),
	})

	if snap.Status.Terminal() {
		s.stopClock(sess)
	}

	events := s.events(before, snap)
	s.metrics.ObserveInput(snap.Kind)
	s.finished(before, snap)
	s.publish(sess, snap, events)

	s.logger.Debugw("input",
		"session", sess.ID, "game", snap.Kind, "action", action,
		"status", snap.Status, "score", snap.Score)

	return &ActionResult{Snapshot: snap.Masked(), Events: events, ClockRunning: sess.clock != nil}, nil
}

// Tick advances a tick-driven game by one step
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string) (*ActionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if !sess.Game.TickDriven() {
		return nil, fmt.Errorf("tick %s: %w", sess.Game.Kind(), arcade.ErrNotTickDriven)
	}

	snap, events := s.tickLocked(sess)
	if snap.Status.Terminal() {
		s.stopClock(sess)
	}
	return &ActionResult{Snapshot: snap.Masked(), Events: events, ClockRunning: sess.clock != nil}, nil
}

// tickLocked runs one tick; sess.Mu must be held
func (s *gameServiceImpl) tickLocked(sess *Session) (arcade.Snapshot, []GameEvent) {
	before := sess.Game.State()
	began := time.Now()
	snap, _ := sess.Game.Tick()
	s.metrics.ObserveTick(snap.Kind, time.Since(began))

	events := s.events(before, snap)
	s.finished(before, snap)
	s.publish(sess, snap, events)
	return snap, events
}

// Start moves an idle game to running and starts the clock of tick-driven
// games. Starting a paused game resumes its clock.
func (s *gameServiceImpl) Start(ctx context.Context, sessionID string) (*ActionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	before := sess.Game.State()
	snap := sess.Game.Start()
	if sess.Game.TickDriven() && snap.Status == core.Running {
		s.startClock(sess)
	}

	events := s.events(before, snap)
	if len(events) > 0 {
		s.publish(sess, snap, events)
	}
	s.logger.Debugw("start", "session", sess.ID, "game", snap.Kind, "status", snap.Status)

	return &ActionResult{Snapshot: snap.Masked(), Events: events, ClockRunning: sess.clock != nil}, nil
}

// Pause stops the session clock. Engine state is untouched.
func (s *gameServiceImpl) Pause(ctx context.Context, sessionID string) (*ActionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	s.stopClock(sess)
	return &ActionResult{Snapshot: sess.Game.State().Masked()}, nil
}

// Reset stops the clock and returns the game to its initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*ActionResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	s.stopClock(sess)
	snap := sess.Game.Reset()
	events := []GameEvent{{
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: s.now(),
	}}
	s.publish(sess, snap, events)
	s.logger.Debugw("reset", "session", sess.ID, "game", snap.Kind)

	return &ActionResult{Snapshot: snap.Masked(), Events: events}, nil
}

// GetGameState returns the current snapshot
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*arcade.Snapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	snap := sess.Game.State().Masked()
	return &snap, nil
}

// GetHistory returns paginated action history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	sess.Mu.Lock()
	history := append([]ActionEntry(nil), sess.History...)
	sess.Mu.Unlock()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var actions []ActionEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else if start < total {
		actions = history[start:end]
	}

	if actions == nil {
		actions = []ActionEntry{}
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListGames returns the catalog of game kinds
func (s *gameServiceImpl) ListGames(ctx context.Context) []arcade.GameInfo {
	return arcade.Catalog()
}

// ListConfigs returns available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configID string) (*arcade.Preset, error) {
	return s.configs.LoadConfig(configID)
}

// SaveConfig saves a preset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configID string, preset *arcade.Preset) error {
	if preset == nil {
		return fmt.Errorf("%w: empty preset", ErrInvalidConfig)
	}
	return s.configs.SaveConfig(configID, preset)
}

// Close stops every session clock and waits for the runners to exit
func (s *gameServiceImpl) Close() error {
	s.cancel()
	s.clocks.Wait()
	return nil
}

// events lists what changed between two snapshots
func (s *gameServiceImpl) events(before, after arcade.Snapshot) []GameEvent {
	now := s.now()
	var events []GameEvent

	if before.Status == core.Idle && after.Status == core.Running {
		events = append(events, GameEvent{Type: EventStart, Message: "Game started", Timestamp: now})
	}
	if after.ScoreDelta > 0 && after.Score != before.Score {
		events = append(events, GameEvent{
			Type:      EventScore,
			Message:   fmt.Sprintf("Scored %d", after.ScoreDelta),
			Score:     after.Score,
			Timestamp: now,
		})
	}
	if before.Status != after.Status {
		switch after.Status {
		case core.Won:
			msg := "You won!"
			if ts, ok := after.State.(tictactoe.State); ok && ts.Tie {
				msg = "It's a tie"
			}
			events = append(events, GameEvent{Type: EventWon, Message: msg, Score: after.Score, Timestamp: now})
		case core.Lost:
			events = append(events, GameEvent{Type: EventLost, Message: "Game over", Score: after.Score, Timestamp: now})
		}
	}
	return events
}

// finished counts games entering Won or Lost
func (s *gameServiceImpl) finished(before, after arcade.Snapshot) {
	if before.Status == after.Status {
		return
	}
	if after.Status == core.Won || after.Status == core.Lost {
		s.metrics.ObserveFinished(after.Kind, after.Status)
	}
}

func (s *gameServiceImpl) publish(sess *Session, snap arcade.Snapshot, events []GameEvent) {
	s.publisher.Publish(Update{SessionID: sess.ID, Snapshot: snap.Masked(), Events: events})
}
