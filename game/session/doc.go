// Package session provides session management for the arcade server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//
// Core Types:
//
// Manager is the session store behind service.SessionManager. A
// service.Session carries the preset it was created from, the arcade.Game
// built for it and the mutex that serialises every call into that game.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive. Generated IDs are drawn from crypto/rand and retried
// until unused.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "classic", preset, func(s *service.Session) (arcade.Game, error) {
//		return arcade.New(s.Preset, arcade.Deps{})
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions live in memory only. Expiry of idle sessions is driven by the
// game service, which stops a session's clock before deleting it.
package session
