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
	"github.com/spf13/cast"

	"github.com/wricardo/neurosphere-arcade/game/arcade"
	"github.com/wricardo/neurosphere-arcade/game/core"
	"github.com/wricardo/neurosphere-arcade/game/service"
)

// Version is reported to MCP clients
const Version = "1.0.0"

// maxTicks bounds the tick tool so one call cannot run a game forever
const maxTicks = 100

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"NEUROSPHERE Arcade",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`NEUROSPHERE Arcade - MCP Interface

This is a thin client that proxies all requests to the arcade REST API.

GAMES:
merge (slide and merge tiles), stacking (falling pieces), snake, scroller
(jump through gaps), pairs (memory cards) and tictactoe (against a
heuristic opponent).

TYPICAL FLOW:
1. list_games or list_configs to pick something to play
2. create_session with a config_id (a game kind works too)
3. start, then input actions; tick-driven games also advance with tick
4. game_state whenever you need the board

Call game_instructions for the rules and actions of one game.`),
	)

	c.registerTools()
}

func sessionArg() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID"))
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Catalog
	c.mcpServer.AddTool(mcp.NewTool("list_games",
		mcp.WithDescription("List the available games with their actions"),
	), c.handleListGames)

	c.mcpServer.AddTool(mcp.NewTool("list_configs",
		mcp.WithDescription("List available presets"),
	), c.handleListConfigs)

	c.mcpServer.AddTool(mcp.NewTool("game_instructions",
		mcp.WithDescription("Rules and actions of one game"),
		mcp.WithString("game", mcp.Required(), mcp.Description("Game kind"),
			mcp.Enum("merge", "stacking", "snake", "scroller", "pairs", "tictactoe")),
	), c.handleGameInstructions)

	// Session management
	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a new game session with optional preset selection"),
		mcp.WithString("config_id", mcp.Description("Preset ID or game kind (optional, uses the default preset)")),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List all active game sessions"),
	), c.handleListSessions)

	c.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get details of a specific session"),
		sessionArg(),
	), c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.NewTool("game_state",
		mcp.WithDescription("Get the current game state"),
		sessionArg(),
	), c.handleGameState)

	c.mcpServer.AddTool(mcp.NewTool("input",
		mcp.WithDescription("Send one player action, for example left, rotate, jump or a card/cell index"),
		sessionArg(),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to apply")),
		mcp.WithString("intent", mcp.Description("Brief explanation of why you chose this action")),
	), c.handleInput)

	c.mcpServer.AddTool(mcp.NewTool("tick",
		mcp.WithDescription("Advance a tick-driven game by one or more steps"),
		sessionArg(),
		mcp.WithNumber("count", mcp.Description("Number of ticks (default 1, max 100)")),
	), c.handleTick)

	c.mcpServer.AddTool(mcp.NewTool("start",
		mcp.WithDescription("Start the game and its clock"),
		sessionArg(),
	), c.handleStart)

	c.mcpServer.AddTool(mcp.NewTool("pause",
		mcp.WithDescription("Stop the game clock"),
		sessionArg(),
	), c.handlePause)

	c.mcpServer.AddTool(mcp.NewTool("reset_game",
		mcp.WithDescription("Reset the game to its initial state"),
		sessionArg(),
	), c.handleReset)

	c.mcpServer.AddTool(mcp.NewTool("action_history",
		mcp.WithDescription("View past actions of a session"),
		sessionArg(),
		mcp.WithNumber("page", mcp.Description("Page number (default 1)")),
		mcp.WithNumber("limit", mcp.Description("Entries per page (default 20, max 100)")),
		mcp.WithString("order", mcp.Description("asc or desc (default desc)"), mcp.Enum("asc", "desc")),
	), c.handleHistory)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
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

func sessionPath(request mcp.CallToolRequest, suffix string) (string, error) {
	id := strings.TrimSpace(cast.ToString(request.GetArguments()["session_id"]))
	if id == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// Tool handlers

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var games []arcade.GameInfo
	if err := c.apiCall(ctx, "GET", "/api/games", nil, &games); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Games:\n\n")
	for _, g := range games {
		mode := "event driven"
		if g.TickDriven {
			mode = "tick driven"
		}
		fmt.Fprintf(&b, "• %s (%s, %s)\n  %s\n  Actions: %s\n\n",
			g.Title, g.Kind, mode, g.Description, strings.Join(g.Actions, ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		origin := "file"
		if config.BuiltIn {
			origin = "built-in"
		}
		fmt.Fprintf(&b, "• %s [%s]\n  %s\n  Game: %s (%s)\n\n",
			config.ConfigID, config.Name, config.Description, config.Game, origin)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := core.Kind(strings.ToLower(cast.ToString(request.GetArguments()["game"])))
	text, ok := instructions[kind]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown game %q", kind)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := cast.ToString(request.GetArguments()["config_id"]); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nGame: %s\n\n%s",
		session.ID, session.ConfigID, session.Game, formatSnapshot(&session.Snapshot))
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
		fmt.Fprintf(&b, "- %s (%s, Config: %s, Status: %s, Score: %d, Created: %s)\n",
			s.ID, s.Game, s.ConfigID, s.Snapshot.Status, s.Snapshot.Score, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snap arcade.Snapshot
	if err := c.apiCall(ctx, "GET", path, nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// intent is only there to make the caller explain itself
	action := cast.ToString(request.GetArguments()["action"])

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, map[string]string{"action": action}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Action: %s\n%s", action, formatActionResult(&result))), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/tick")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	count := cast.ToInt(request.GetArguments()["count"])
	if count <= 0 {
		count = 1
	}
	if count > maxTicks {
		count = maxTicks
	}

	var result service.ActionResult
	var events []service.GameEvent
	ticks := 0
	for ticks < count {
		if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ticks++
		events = append(events, result.Events...)
		if result.Snapshot.Status.Terminal() {
			break
		}
	}
	result.Events = events

	return mcp.NewToolResultText(fmt.Sprintf("Ticks: %d\n%s", ticks, formatActionResult(&result))), nil
}

func (c *Client) lifecycle(suffix, verb string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := sessionPath(request, suffix)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var result service.ActionResult
		if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("%s\n%s", verb, formatActionResult(&result))), nil
	}
}

func (c *Client) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.lifecycle("/start", "Game started")(ctx, request)
}

func (c *Client) handlePause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.lifecycle("/pause", "Game paused")(ctx, request)
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.lifecycle("/reset", "Game reset")(ctx, request)
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	params := url.Values{}
	if page := cast.ToInt(args["page"]); page > 0 {
		params.Set("page", cast.ToString(page))
	}
	if limit := cast.ToInt(args["limit"]); limit > 0 {
		params.Set("limit", cast.ToString(limit))
	}
	if order := cast.ToString(args["order"]); order != "" {
		params.Set("order", order)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}
