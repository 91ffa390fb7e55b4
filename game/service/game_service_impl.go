package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/terminal-snake/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a theme display name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Printf("[SESSION] created %s (theme %s)", session.ID, configID)

	info := s.sessionInfo(session)
	info.ConfigName = configID
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Tick advances a session by one input
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID, input string) (*TickResult, error) {
	in, ok := engine.ParseInput(input)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInput, input)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if !sess.Engine.IsRunning() {
		return nil, fmt.Errorf("%w: session %s has quit, reset it to play again", ErrGameNotRunning, sessionID)
	}

	entry := sess.Engine.Tick(in)
	view := renderView(sess)

	return &TickResult{
		Success:   !entry.Died,
		GameState: sess.Engine.GetState().Clone(),
		View:      view,
		Message:   tickMessage(sess),
		Events:    tickEvents(sess, entry),
		Step:      &entry,
	}, nil
}

// BulkTick runs several inputs in sequence. Every input is parsed before
// any tick runs; the run stops after the snake dies or the game quits.
func (s *gameServiceImpl) BulkTick(ctx context.Context, sessionID string, inputs []string, reset bool) (*BulkTickResult, error) {
	parsed := make([]engine.Input, 0, len(inputs))
	for i, raw := range inputs {
		in, ok := engine.ParseInput(raw)
		if !ok {
			return nil, fmt.Errorf("%w at position %d: %q", ErrInvalidInput, i+1, raw)
		}
		parsed = append(parsed, in)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkTickResult{
		RequestedTicks: len(parsed),
		Success:        true,
		Events:         make([]GameEvent, 0),
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	if !sess.Engine.IsRunning() {
		return nil, fmt.Errorf("%w: session %s has quit, reset it to play again", ErrGameNotRunning, sessionID)
	}

	if len(parsed) > engine.MaxBulkTicks {
		result.Truncated = true
		result.Limit = engine.MaxBulkTicks
		parsed = parsed[:engine.MaxBulkTicks]
	}

	result.StartHead = sess.Engine.GetHead()
	result.StartScore = sess.Engine.GetScore()

	steps := sess.Engine.BulkTick(parsed)
	result.Steps = steps
	result.TicksExecuted = len(steps)
	for _, step := range steps {
		result.Events = append(result.Events, tickEvents(sess, step)...)
	}

	if n := len(steps); n > 0 {
		last := steps[n-1]
		switch {
		case last.Died:
			result.Success = false
			result.StopReasonCode = "died"
			result.StoppedReason = fmt.Sprintf("tick %d: snake died at (%d,%d)", n, last.To.X, last.To.Y)
			result.StoppedOnTick = n
		case !sess.Engine.IsRunning():
			result.StopReasonCode = "quit"
			result.StoppedReason = fmt.Sprintf("tick %d: quit", n)
			result.StoppedOnTick = n
		}
		result.Message = tickMessage(sess)
	}

	result.EndHead = sess.Engine.GetHead()
	result.EndScore = sess.Engine.GetScore()
	result.ScoreDelta = result.EndScore - result.StartScore
	result.Alive = sess.Engine.IsAlive()
	result.Running = sess.Engine.IsRunning()
	result.GameState = sess.Engine.GetState().Clone()
	result.View = renderView(sess)

	return result, nil
}

// Reset forces a fresh board for a session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset().Clone(), nil
}

// GetGameState retrieves a snapshot of the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState().Clone(), nil
}

// GetView renders the session's board with its theme
func (s *gameServiceImpl) GetView(ctx context.Context, sessionID string) (*BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return renderView(sess), nil
}

// GetTickHistory returns paginated tick history
func (s *gameServiceImpl) GetTickHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetTickHistory()
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

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	ticks := []engine.TickHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			ticks = append(ticks, history[i])
		}
	} else if start < total {
		ticks = append(ticks, history[start:end]...)
	}

	return &HistoryResponse{
		Ticks:       ticks,
		TotalTicks:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available themes
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific theme
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a theme to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}
	return s.configs.SaveConfig(configName, config)
}

// sessionInfo reads LastAccessedAt, which UpdateLastAccessed writes; callers hold s.mu for writing.
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Clone(),
		View:           renderView(sess),
		GameConfig:     sess.Config,
	}
}

// renderView paints the session's board through its theme
func renderView(sess *Session) *BoardView {
	state := sess.Engine.GetState()
	v := state.View()

	bv := &BoardView{
		Width:     v.Width,
		Height:    v.Height,
		Rows:      v.Rows(sess.Config),
		Status:    v.Status(sess.Config),
		Score:     v.Score,
		Alive:     v.Alive,
		Running:   v.Running,
		Direction: v.Direction,
		Head:      v.Head,
		Ticks:     state.Ticks,
	}
	if food, ok := state.FoodPosition(); ok {
		bv.Food = &food
	}
	return bv
}

// tickMessage summarizes the latest tick using the session's theme messages
func tickMessage(sess *Session) string {
	state := sess.Engine.GetState()
	switch {
	case !state.Running:
		return "Game quit"
	case !state.Alive:
		return sess.Config.Messages.Died
	default:
		return fmt.Sprintf(sess.Config.Messages.Score, state.Score())
	}
}

// tickEvents generates events from a recorded tick
func tickEvents(sess *Session, entry engine.TickHistoryEntry) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	if entry.Restarted {
		events = append(events, GameEvent{
			Type:      "restart",
			Message:   "Snake respawned at the center",
			Timestamp: now,
			Position:  entry.To,
		})
	}

	if entry.Input == engine.InputQuit {
		events = append(events, GameEvent{
			Type:      "quit",
			Message:   "Game quit",
			Timestamp: now,
		})
	}

	events = append(events, GameEvent{
		Type:      "tick",
		Message:   fmt.Sprintf("Tick %d: head (%d,%d) moving %s", entry.TickNumber, entry.To.X, entry.To.Y, entry.Direction),
		Timestamp: now,
		Position:  entry.To,
	})

	if entry.Ate {
		events = append(events, GameEvent{
			Type:      "food_eaten",
			Message:   fmt.Sprintf("Food eaten! Length %d", entry.Length),
			Timestamp: now,
			Position:  entry.To,
		})
	}

	if entry.Died {
		events = append(events, GameEvent{
			Type:      "died",
			Message:   sess.Config.Messages.Died,
			Timestamp: now,
			Position:  entry.To,
		})
	}

	return events
}
