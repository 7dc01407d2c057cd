// Package scores persists best scores across sessions.
//
// Two stores implement merge.BestScoreStore:
//
//   - FileStore keeps every score in one JSON document
//   - SQLiteStore keeps one row per key in a best_scores table
//
// Both only ever raise a stored score; saving a lower value is a no-op. A key
// that was never saved loads as zero. Open picks the backend by name, which
// is how the serve command wires the store from settings.
package scores
