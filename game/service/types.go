package service

import (
	"time"

	"github.com/wricardo/neurosphere-arcade/game/arcade"
	"github.com/wricardo/neurosphere-arcade/game/core"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string          `json:"id"`
	ConfigID       string          `json:"config_id"`
	Game           core.Kind       `json:"game"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	ClockRunning   bool            `json:"clock_running"`
	Snapshot       arcade.Snapshot `json:"snapshot"`
	Preset         *arcade.Preset  `json:"preset"`
}

// ActionResult contains the outcome of an input, tick, start, pause or reset
type ActionResult struct {
	Snapshot     arcade.Snapshot `json:"snapshot"`
	Events       []GameEvent     `json:"events,omitempty"`
	ClockRunning bool            `json:"clock_running"`
}

// Event types reported in ActionResult.Events
const (
	EventReset = "reset"
	EventStart = "start"
	EventScore = "score"
	EventWon   = "won"
	EventLost  = "lost"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Score     int       `json:"score,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ActionEntry is one recorded player input
type ActionEntry struct {
	Number     int         `json:"number"`
	Action     string      `json:"action"`
	Status     core.Status `json:"status"`
	Score      int         `json:"score"`
	ScoreDelta int         `json:"score_delta"`
	Timestamp  time.Time   `json:"timestamp"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []ActionEntry `json:"actions"`
	TotalActions int           `json:"total_actions"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	TotalPages   int           `json:"total_pages"`
	HasNext      bool          `json:"has_next"`
	HasPrevious  bool          `json:"has_previous"`
}

// ConfigInfo provides information about a game preset
type ConfigInfo struct {
	Filename    string    `json:"filename,omitempty"`
	ConfigID    string    `json:"config_id"` // The identifier to use for session creation
	Name        string    `json:"name"`      // Display name
	Description string    `json:"description"`
	Game        core.Kind `json:"game"`
	TickDriven  bool      `json:"tick_driven"`
	BuiltIn     bool      `json:"built_in"`
}

// Update is what a Publisher receives after every state change
type Update struct {
	SessionID string          `json:"session_id"`
	Snapshot  arcade.Snapshot `json:"snapshot"`
	Events    []GameEvent     `json:"events,omitempty"`
}
