package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/terminal-snake/game/engine"
	"github.com/wricardo/terminal-snake/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Terminal Snake",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Terminal Snake - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Steer the snake around a walled 40x20 board, eat food (grows the snake by one and scores a point) and avoid hitting walls or your own body.

AVAILABLE TOOLS:
- create_session: Create new game session (optionally with a theme)
- list_sessions / get_session: Inspect sessions
- game_state: Current board, score and heading
- tick: Advance one tick with an input (none/up/down/left/right/restart/quit)
- bulk_tick: Several ticks at once, stops on death or quit
- reset_game: Start over on a fresh board
- tick_history: Past ticks with pagination
- list_configs: Available themes
- game_instructions: Rules and board legend
- describe_cell: What occupies one cell

NOTE: The 'intent' parameter on tick/bulk_tick serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func inputEnum() []string {
	return []string{"none", "up", "down", "left", "right", "restart", "quit"}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional theme selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Theme to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, score and heading",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance the game by one tick, applying an input first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"input": map[string]interface{}{
					"type":        "string",
					"enum":        inputEnum(),
					"description": "Input for this tick; 'none' keeps the current heading",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this input (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "input"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_tick",
		Description: fmt.Sprintf("Advance several ticks in sequence (at most %d); stops when the snake dies or the game is quit", engine.MaxBulkTicks),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"inputs": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": inputEnum(),
					},
					"description": "One input per tick",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before ticking",
				},
			},
			Required: []string{"session_id", "inputs"},
		},
	}, c.handleBulkTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to a fresh board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick_history",
		Description: "Get tick history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTickHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available themes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules and board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe what occupies a specific cell of the board and whether entering it is fatal",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeHTTP answers single JSON-RPC messages POSTed to the /mcp endpoint
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	if response == nil {
		// Notifications have no response
		w.WriteHeader(http.StatusAccepted)
		return
	}
	responseData, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Write(responseData)
}

// ServeStdio runs the MCP server over stdin/stdout until the input closes
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var sess service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nTheme: %s\n", sess.ID, sess.ConfigName)
	if sess.GameConfig != nil && sess.GameConfig.Messages.Welcome != "" {
		result += sess.GameConfig.Messages.Welcome + "\n"
	}
	if sess.View != nil {
		result += "\n" + sess.View.Text()
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score := 0
		if s.GameState != nil {
			score = s.GameState.Score()
		}
		fmt.Fprintf(&b, "- %s (Theme: %s, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, score, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var sess service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&sess)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var view service.BoardView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/view"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(&view)), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	input, _ := args["input"].(string)

	// Intent is only there for the caller's benefit
	_, _ = args["intent"].(string)

	var result service.TickResult
	err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/tick"), map[string]string{"input": input}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTickResult(&result)), nil
}

func (c *Client) handleBulkTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	inputsRaw, _ := args["inputs"].([]interface{})
	reset, _ := args["reset"].(bool)

	inputs := make([]string, 0, len(inputsRaw))
	for _, raw := range inputsRaw {
		if in, ok := raw.(string); ok {
			inputs = append(inputs, in)
		}
	}

	body := map[string]interface{}{
		"inputs": inputs,
		"reset":  reset,
	}

	var result service.BulkTickResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-tick"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkTickResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var view service.BoardView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/view"), nil, &view); err != nil {
		return mcp.NewToolResultText(response.Message), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatView(&view)), nil
}

func (c *Client) handleTickHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Themes:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n\n", cfg.ConfigID, cfg.Format, cfg.Description)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Terminal Snake - Complete Instructions

GAME OBJECTIVE:
Eat as much food as possible. Every food eaten adds one segment to the snake and one point to the score.

BOARD:
• The board is %dx%d cells, (0,0) is the top-left corner
• The outer ring is wall
• The snake starts as a single segment at the center, not moving
• Exactly one food item is on the board at any time

TICKS:
Time advances in ticks. Every tick consumes exactly one input and then moves the snake one cell in its current heading.
• none - keep going in the current heading
• up, down, left, right - turn; reversing straight into your own neck is ignored
• restart - after dying, respawn on a fresh board
• quit - end the session's game; reset_game starts it again

DEATH:
Moving the head onto a wall or onto the snake's own body kills the snake. The board freezes until a restart.

GRID LEGEND (classic theme; other themes use other glyphs):
• # - wall
• @ - food
• 0 - body
• ^ v < > - head, pointing in the current heading
• . - empty

STRATEGY:
• Use bulk_tick with "none" to travel straight for several cells at once
• Check describe_cell before turning next to walls or your own body
• Leave yourself an escape route as the snake grows

Good luck, and mind your tail!`, engine.DefaultWidth, engine.DefaultHeight)

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}
	x, y := int(xf), int(yf)

	var sess service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sess.GameState == nil {
		return mcp.NewToolResultError("session has no game state"), nil
	}

	state := sess.GameState
	if x < 0 || x >= state.Width || y < 0 || y >= state.Height {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Board is %dx%d (x 0-%d, y 0-%d)",
			x, y, state.Width, state.Height, state.Width-1, state.Height-1)), nil
	}

	symbol := state.View().At(x, y)
	glyph := ""
	if sess.View != nil && y < len(sess.View.Rows) {
		if runes := []rune(sess.View.Rows[y]); x < len(runes) {
			glyph = string(runes[x])
		}
	}

	result := fmt.Sprintf(`Cell at position (%d, %d):
Glyph: %s
Symbol: %s
Fatal: %v
Description: %s`,
		x, y, glyph, symbol, isFatal(symbol), describeSymbol(symbol))

	return mcp.NewToolResultText(result), nil
}

func isFatal(symbol engine.Symbol) bool {
	switch symbol {
	case engine.SymbolWall, engine.SymbolBody:
		return true
	}
	return false
}

func describeSymbol(symbol engine.Symbol) string {
	switch symbol {
	case engine.SymbolEmpty:
		return "Empty cell - safe to enter"
	case engine.SymbolWall:
		return "Wall - entering it kills the snake"
	case engine.SymbolFood:
		return "Food - eating it grows the snake and scores a point"
	case engine.SymbolBody:
		return "Snake body - running into it kills the snake"
	case engine.SymbolHeadUp, engine.SymbolHeadDown, engine.SymbolHeadLeft, engine.SymbolHeadRight:
		return "Snake head, moving " + strings.TrimPrefix(string(symbol), "head_")
	case engine.SymbolHeadIdle:
		return "Snake head, not moving yet"
	default:
		return "Unknown"
	}
}

// Formatting helpers

func formatSessionInfo(sess *service.SessionInfo) string {
	header := fmt.Sprintf("Session: %s\nTheme: %s\nCreated: %s\n\n",
		sess.ID, sess.ConfigName, sess.CreatedAt.Format("2006-01-02 15:04:05"))
	return header + formatView(sess.View)
}

func formatView(view *service.BoardView) string {
	if view == nil {
		return "No board available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Head: (%d,%d) | Heading: %s | Score: %d | Ticks: %d\n",
		view.Head.X, view.Head.Y, view.Direction, view.Score, view.Ticks)
	if view.Food != nil {
		fmt.Fprintf(&b, "Food: (%d,%d)\n", view.Food.X, view.Food.Y)
	}
	b.WriteString("\n")
	b.WriteString(view.Text())

	switch {
	case !view.Running:
		b.WriteString("\nGAME QUIT - use reset_game to play again")
	case !view.Alive:
		b.WriteString("\nDEAD - tick with 'restart' to respawn")
	}

	return b.String()
}

func formatStep(idx int, s engine.TickHistoryEntry) string {
	var flags []string
	if s.Ate {
		flags = append(flags, "ate")
	}
	if s.Died {
		flags = append(flags, "died")
	}
	if s.Restarted {
		flags = append(flags, "restarted")
	}
	line := fmt.Sprintf("%d. %s heading=%s (%d,%d)->(%d,%d) len=%d",
		idx, s.Input, s.Direction, s.From.X, s.From.Y, s.To.X, s.To.Y, s.Length)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ",") + "]"
	}
	return line + "\n"
}

func formatTickResult(result *service.TickResult) string {
	var b strings.Builder

	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if result.Step != nil {
		b.WriteString("Step: ")
		b.WriteString(formatStep(result.Step.TickNumber, *result.Step))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatView(result.View))
	return b.String()
}

func formatBulkTickResult(sessionID string, result *service.BulkTickResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Executed %d/%d ticks", result.TicksExecuted, result.RequestedTicks)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on tick %d: %s\n", result.StoppedOnTick, result.StoppedReason)
	}
	fmt.Fprintf(&b, "Head: (%d,%d) -> (%d,%d) | Score: %d -> %d (%+d)\n",
		result.StartHead.X, result.StartHead.Y, result.EndHead.X, result.EndHead.Y,
		result.StartScore, result.EndScore, result.ScoreDelta)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for i, s := range result.Steps {
			b.WriteString(formatStep(i+1, s))
		}
	}

	var notable []service.GameEvent
	for _, event := range result.Events {
		if event.Type != "tick" {
			notable = append(notable, event)
		}
	}
	if len(notable) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range notable {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatView(result.View))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tick History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalTicks)

	for _, tick := range history.Ticks {
		b.WriteString(formatStep(tick.TickNumber, tick))
	}
	if len(history.Ticks) == 0 {
		b.WriteString("(no ticks)\n")
	}

	return b.String()
}
