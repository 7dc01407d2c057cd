// Package arcade puts the six engines behind one Game interface.
//
// The engines each have their own Config, State and action type. Transports
// and the service layer only deal in kinds, presets, action strings and
// Snapshots, so this package is the one place that knows every engine.
//
// Presets:
//
// A Preset names one engine kind plus its config section. Missing sections
// fall back to the engine's DefaultConfig:
//
//	{
//	  "name": "Speed Stacker",
//	  "description": "Stacking that starts fast",
//	  "game": "stacking",
//	  "stacking": {"base_interval": "300ms", "width": 10, "height": 20, ...}
//	}
//
// Actions:
//
//	merge      left | right | up | down
//	stacking   left | right | rotate | down (softdrop)
//	snake      up | down | left | right
//	scroller   jump (flap)
//	pairs      card index 0..n-1
//	tictactoe  cell index 0..8
//
// An action string that cannot be parsed returns ErrUnknownAction. A parsed
// action the engine rejects is a no-op and returns the unchanged snapshot.
package arcade
