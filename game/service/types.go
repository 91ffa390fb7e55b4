package service

import (
	"strings"
	"time"

	"github.com/wricardo/terminal-snake/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	View           *BoardView         `json:"view,omitempty"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// BoardView is a session's board rendered with its theme
type BoardView struct {
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Rows      []string         `json:"rows"`
	Status    []string         `json:"status"`
	Score     int              `json:"score"`
	Alive     bool             `json:"alive"`
	Running   bool             `json:"running"`
	Direction engine.Direction `json:"direction"`
	Head      engine.Position  `json:"head"`
	Food      *engine.Position `json:"food,omitempty"`
	Ticks     int              `json:"ticks"`
}

// Text joins the rows and status lines the way the terminal draws them
func (v *BoardView) Text() string {
	lines := append(append([]string{}, v.Rows...), "")
	lines = append(lines, v.Status...)
	return strings.Join(lines, "\n") + "\n"
}

// TickResult contains the result of a single tick
type TickResult struct {
	Success   bool                     `json:"success"`
	GameState *engine.GameState        `json:"game_state"`
	View      *BoardView               `json:"view"`
	Message   string                   `json:"message"`
	Events    []GameEvent              `json:"events,omitempty"`
	Step      *engine.TickHistoryEntry `json:"step,omitempty"`
}

// BulkTickResult contains the result of several ticks
type BulkTickResult struct {
	// Summary
	TicksExecuted  int    `json:"ticks_executed"`
	RequestedTicks int    `json:"requested_ticks"`
	Success        bool   `json:"success"`
	StoppedReason  string `json:"stopped_reason,omitempty"`
	StopReasonCode string `json:"stop_reason_code,omitempty"` // died|quit
	StoppedOnTick  int    `json:"stopped_on_tick,omitempty"`  // 1-based index of the tick that caused stop
	Truncated      bool   `json:"truncated,omitempty"`
	Limit          int    `json:"limit,omitempty"`

	// Start/end snapshot
	StartHead  engine.Position `json:"start_head"`
	EndHead    engine.Position `json:"end_head"`
	StartScore int             `json:"start_score"`
	EndScore   int             `json:"end_score"`
	ScoreDelta int             `json:"score_delta"`

	Steps     []engine.TickHistoryEntry `json:"steps,omitempty"`
	Events    []GameEvent               `json:"events"`
	GameState *engine.GameState         `json:"game_state"`
	View      *BoardView                `json:"view"`
	Alive     bool                      `json:"alive"`
	Running   bool                      `json:"running"`
	Message   string                    `json:"message,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "tick", "food_eaten", "died", "restart", "quit", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures tick history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated tick history
type HistoryResponse struct {
	Ticks       []engine.TickHistoryEntry `json:"ticks"`
	TotalTicks  int                       `json:"total_ticks"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a theme
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Format      string `json:"format"` // json, yaml or yml
}
