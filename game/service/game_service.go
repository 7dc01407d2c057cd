package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/arcade"
	"github.com/wricardo/neurosphere-arcade/game/core"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ExpireSessions(ctx context.Context, maxAge time.Duration) int

	// Game Operations
	Input(ctx context.Context, sessionID, action string) (*ActionResult, error)
	Tick(ctx context.Context, sessionID string) (*ActionResult, error)
	Start(ctx context.Context, sessionID string) (*ActionResult, error)
	Pause(ctx context.Context, sessionID string) (*ActionResult, error)
	Reset(ctx context.Context, sessionID string) (*ActionResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*arcade.Snapshot, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Catalog and configuration
	ListGames(ctx context.Context) []arcade.GameInfo
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configID string) (*arcade.Preset, error)
	SaveConfig(ctx context.Context, configID string, preset *arcade.Preset) error

	// Close stops every session clock
	Close() error
}

// GameBuilder constructs the game for a freshly created session. It runs
// before the session is visible to other callers.
type GameBuilder func(sess *Session) (arcade.Game, error)

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, preset *arcade.Preset, build GameBuilder) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Count() int
}

// ConfigManager handles preset loading
type ConfigManager interface {
	LoadConfig(name string) (*arcade.Preset, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *arcade.Preset
	SaveConfig(name string, preset *arcade.Preset) error
}

// Publisher receives every state change of every session
type Publisher interface {
	Publish(update Update)
}

// Metrics records gameplay counters
type Metrics interface {
	ObserveInput(kind core.Kind)
	ObserveTick(kind core.Kind, elapsed time.Duration)
	ObserveFinished(kind core.Kind, status core.Status)
	SetActiveSessions(n int)
}

// Session represents an active game session. Mu serialises every call into
// Game, including deferred timer callbacks.
type Session struct {
	ID             string
	ConfigID       string
	Preset         *arcade.Preset
	Game           arcade.Game
	CreatedAt      time.Time
	LastAccessedAt time.Time

	Mu      sync.Mutex
	History []ActionEntry

	clock *clockRunner
}
