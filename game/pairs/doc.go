// Package pairs implements the pair-matching memory game.
//
// Every symbol appears on exactly two cards, shuffled with Fisher-Yates on
// reset. Flipping a second card starts a resolution timer: a matching pair is
// marked matched after MatchDelay, a mismatch is turned back face down after
// the longer MismatchDelay. While two cards wait for resolution every flip is
// ignored.
//
// Timers are created through a core.Scheduler and owned by the engine. Reset
// stops the pending timer and bumps a generation counter, so a callback that
// already started firing finds itself stale and does nothing.
//
// The engine guards its state with a mutex, so timer callbacks firing on
// another goroutine serialise with ApplyInput and Reset. The resolve hook
// runs after that mutex is released.
package pairs
