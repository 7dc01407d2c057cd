// Package stacking implements the falling-block stacking game (Tetris-style).
//
// The board is a Width x Height grid of occupancy codes: 0 is empty and 1..7
// is the color id of the tetromino that settled there. One active piece falls
// one row per Tick. When it can no longer move down it is locked into the
// board, full rows are cleared, and a new random piece spawns at the top
// centre. A spawn that overlaps settled cells ends the game.
//
// Rotate, Fits, Lock and ClearLines are pure functions of their arguments so
// the geometry can be tested without the game loop.
//
// Scoring and speed:
//
//	score += cleared * LineScore * level
//	level  = lines/LinesPerLevel + 1
//	drop   = max(MinInterval, BaseInterval - level*IntervalStep)
package stacking
