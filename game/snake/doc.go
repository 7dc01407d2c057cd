// Package snake implements the grid movement and self-collision game.
//
// The snake is an ordered list of cells with the head first. Direction input
// only sets the pending direction; it takes effect on the next Tick, and an
// exact reversal of the current direction is ignored. Each Tick moves the
// head one cell. Leaving the board or touching the body is fatal. Eating food
// grows the snake by one and respawns food on a random free cell. Filling
// the whole board wins.
package snake
