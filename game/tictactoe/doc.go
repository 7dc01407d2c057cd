// Package tictactoe implements the turn-based 3x3 strategy game with an
// optional heuristic opponent.
//
// X always moves first. After each placement the eight winning lines are
// checked; a full board without a line is a tie. Both a win and a tie end
// the game with status Won, distinguished by the Winner and Tie fields.
//
// When the opponent is enabled it answers inside the same ApplyInput call
// using ChooseMove, which tries in order: win now, block the other side,
// take the centre, take a random free corner, take a random free cell.
//
// Score counts the games won by the human side (X when playing two-player).
// The Scoreboard keeps per-side totals across resets.
package tictactoe
