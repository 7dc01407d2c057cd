// Package scroller implements the side-scrolling flap-through-the-gaps game.
//
// The actor sits at a fixed x and moves only vertically under gravity using
// explicit Euler integration (velocity first, then position). A jump replaces
// the velocity with a fixed upward impulse. Obstacles scroll left by a fixed
// speed each Tick; each has one vertical gap. Touching an obstacle outside its
// gap, or leaving the play area, ends the run. Each obstacle scores once,
// the first tick its right edge is left of the actor.
package scroller
