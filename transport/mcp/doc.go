// Package mcp exposes the arcade to Model Context Protocol agents.
//
// The Client registers MCP tools that proxy to the REST API, so the same
// binary can serve agents over stdio or on the /mcp HTTP endpoint while the
// game state lives in one server.
//
// Tools:
//   - list_games, list_configs, game_instructions
//   - create_session, list_sessions, get_session
//   - game_state, input, tick, start, pause, reset_game, action_history
//
// Results are plain text: boards are drawn as character grids and face-down
// pair-match cards stay hidden.
package mcp
