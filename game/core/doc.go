// Package core holds the primitives shared by every arcade engine.
//
// It deliberately contains no game rules. It provides:
//   - Status: the Idle/Running/Won/Lost lifecycle enumeration
//   - Kind: the identifier of each engine
//   - Random: the injectable pseudo-random source (nextInt(bound))
//   - Scheduler and Timer: cancellable deferred callbacks used by engines
//     that resolve state after a delay
//
// Engines depend on these abstractions instead of ambient globals so that a
// test can drive them deterministically with ScriptedRandom and
// ManualScheduler.
package core
