// Package api exposes the arcade over HTTP.
//
// Catalog:
//   - GET /api/games - Game kinds with their actions
//   - GET /api/scores - Best scores per preset
//
// Session Management:
//   - POST /api/sessions - Create a session from {"config_id": "..."}
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit, game)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session and stop its clock
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/input - Apply {"action": "left"}
//   - POST /api/sessions/{id}/tick - Advance a tick-driven game by one step
//   - POST /api/sessions/{id}/start - Start play and the session clock
//   - POST /api/sessions/{id}/pause - Stop the session clock
//   - POST /api/sessions/{id}/reset - Restart the game
//   - GET /api/sessions/{id}/history - Paginated input history (page, limit, order)
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get one preset
//   - POST /api/configs - Save a preset
//
// Live updates are served on GET /ws?session={id}. Clients receive a
// state_update message after every change and may send
// {"type": "input", "action": "left"} and friends back.
//
// Errors are returned as {"error": "..."} with 404 for unknown sessions and
// presets, 400 for rejected input and 500 otherwise.
package api
