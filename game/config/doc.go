// Package config manages game presets for the arcade server.
//
// A preset is a JSON file in the presets directory naming one game kind and
// that engine's rules (see arcade.Preset). The file name without ".json" is
// the config ID used to create sessions.
//
// Every game kind is also available as a built-in preset under its own name
// ("merge", "stacking", "snake", "scroller", "pairs", "tictactoe"), so a
// fresh install can play without any files. A file with the same name
// overrides the built-in.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadConfig("speed_stacker")
//	presets, err := manager.ListConfigs()
//
// Validation:
//
// ValidateFile and ValidateDir check preset files without a Manager and
// report per-file results; the validate command prints them.
package config
