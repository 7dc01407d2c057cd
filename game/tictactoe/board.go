package tictactoe

import "github.com/wricardo/neurosphere-arcade/game/core"

// Mark is the content of a cell
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Other returns the opposing mark
func (m Mark) Other() Mark {
	if m == X {
		return O
	}
	return X
}

// Lines are the eight winning triples
var Lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

var corners = []int{0, 2, 6, 8}

const center = 4

// Winner returns the mark owning a complete line and that line
func Winner(board []Mark) (Mark, []int) {
	for _, l := range Lines {
		m := board[l[0]]
		if m != Empty && board[l[1]] == m && board[l[2]] == m {
			return m, []int{l[0], l[1], l[2]}
		}
	}
	return Empty, nil
}

// Full reports whether no cell is empty
func Full(board []Mark) bool {
	for _, m := range board {
		if m == Empty {
			return false
		}
	}
	return true
}

// completing returns the first empty cell that would give m a line
func completing(board []Mark, m Mark) int {
	for _, l := range Lines {
		count, empty := 0, -1
		for _, i := range l {
			switch board[i] {
			case m:
				count++
			case Empty:
				empty = i
			}
		}
		if count == 2 && empty >= 0 {
			return empty
		}
	}
	return -1
}

// ChooseMove picks the heuristic move for me. It returns -1 when the board
// is full.
func ChooseMove(board []Mark, me Mark, rng core.Random) int {
	if cell := completing(board, me); cell >= 0 {
		return cell
	}
	if cell := completing(board, me.Other()); cell >= 0 {
		return cell
	}
	if board[center] == Empty {
		return center
	}

	var free []int
	for _, c := range corners {
		if board[c] == Empty {
			free = append(free, c)
		}
	}
	if len(free) > 0 {
		return free[rng.Intn(len(free))]
	}

	for i, m := range board {
		if m == Empty {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return -1
	}
	return free[rng.Intn(len(free))]
}
