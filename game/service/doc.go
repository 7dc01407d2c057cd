// Package service provides the business logic layer for the arcade server.
//
// The service package implements:
//   - Multi-session game management
//   - Preset loading and saving through a ConfigManager
//   - Input, tick, start, pause and reset for every game kind
//   - A clock per tick-driven session
//   - Action history and gameplay events
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
// Publisher receives every state change, Metrics receives gameplay counters.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the arcade games. Each session owns one arcade.Game and the mutex that
// serialises every call into it. Deferred transitions, such as a pair-match
// resolving two face-up cards, are scheduled through a core.LockedScheduler
// bound to that same mutex, so a timer callback never interleaves with an
// input.
//
// Clocks:
//
// Start launches a goroutine driven by a time.Ticker for stacking, snake and
// scroller sessions. After every tick the runner re-reads TickInterval, so a
// stacking game speeds up as its level rises. Pause, Reset, DeleteSession,
// a terminal status and Close all stop it. Cancellation happens under the
// session lock and the runner checks for it after taking the lock, so no tick
// lands after Pause returns.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithLogger(log), service.WithPublisher(hub))
//	defer gameService.Close()
//
//	info, err := gameService.CreateSession(ctx, "stacking")
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameService.Start(ctx, info.ID)
//	gameService.Input(ctx, info.ID, "rotate")
//
// Snapshots leaving the service are masked, so face-down pair-match cards
// never reach a client.
package service
