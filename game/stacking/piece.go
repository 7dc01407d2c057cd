package stacking

// Tetromino is one of the seven piece templates
type Tetromino struct {
	Name  string
	Color int
	Shape [][]int
}

// Tetrominoes are indexed by the random draw; colors are 1..7
var Tetrominoes = []Tetromino{
	{Name: "I", Color: 1, Shape: [][]int{{1, 1, 1, 1}}},
	{Name: "O", Color: 2, Shape: [][]int{{1, 1}, {1, 1}}},
	{Name: "T", Color: 3, Shape: [][]int{{0, 1, 0}, {1, 1, 1}}},
	{Name: "S", Color: 4, Shape: [][]int{{0, 1, 1}, {1, 1, 0}}},
	{Name: "Z", Color: 5, Shape: [][]int{{1, 1, 0}, {0, 1, 1}}},
	{Name: "J", Color: 6, Shape: [][]int{{1, 0, 0}, {1, 1, 1}}},
	{Name: "L", Color: 7, Shape: [][]int{{0, 0, 1}, {1, 1, 1}}},
}

// Piece is the falling piece. Row and Col anchor the top-left of Shape.
type Piece struct {
	Kind  string  `json:"kind"`
	Color int     `json:"color"`
	Shape [][]int `json:"shape"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
}

func (p Piece) clone() Piece {
	p.Shape = cloneGrid(p.Shape)
	return p
}

// Rotate returns shape turned 90 degrees clockwise: transpose, then reverse
// each row.
func Rotate(shape [][]int) [][]int {
	if len(shape) == 0 {
		return nil
	}
	h, w := len(shape), len(shape[0])
	out := make([][]int, w)
	for c := 0; c < w; c++ {
		out[c] = make([]int, h)
		for r := 0; r < h; r++ {
			out[c][h-1-r] = shape[r][c]
		}
	}
	return out
}

// Fits reports whether shape anchored at (row, col) stays inside the board
// and only covers empty cells
func Fits(board, shape [][]int, row, col int) bool {
	height := len(board)
	if height == 0 {
		return false
	}
	width := len(board[0])
	for r, line := range shape {
		for c, v := range line {
			if v == 0 {
				continue
			}
			br, bc := row+r, col+c
			if br < 0 || br >= height || bc < 0 || bc >= width {
				return false
			}
			if board[br][bc] != 0 {
				return false
			}
		}
	}
	return true
}

// Lock returns a copy of board with p written in its color
func Lock(board [][]int, p Piece) [][]int {
	out := cloneGrid(board)
	for r, line := range p.Shape {
		for c, v := range line {
			if v == 0 {
				continue
			}
			br, bc := p.Row+r, p.Col+c
			if br >= 0 && br < len(out) && bc >= 0 && bc < len(out[br]) {
				out[br][bc] = p.Color
			}
		}
	}
	return out
}

// ClearLines removes every full row, shifting the rows above down, and
// returns the new board with the number of rows removed. Height is kept.
func ClearLines(board [][]int) ([][]int, int) {
	height := len(board)
	if height == 0 {
		return board, 0
	}
	width := len(board[0])

	kept := make([][]int, 0, height)
	for _, row := range board {
		full := true
		for _, v := range row {
			if v == 0 {
				full = false
				break
			}
		}
		if !full {
			kept = append(kept, append([]int(nil), row...))
		}
	}

	cleared := height - len(kept)
	out := make([][]int, 0, height)
	for i := 0; i < cleared; i++ {
		out = append(out, make([]int, width))
	}
	return append(out, kept...), cleared
}

func newGrid(width, height int) [][]int {
	g := make([][]int, height)
	for i := range g {
		g[i] = make([]int, width)
	}
	return g
}

func cloneGrid(g [][]int) [][]int {
	if g == nil {
		return nil
	}
	out := make([][]int, len(g))
	for i := range g {
		out[i] = append([]int(nil), g[i]...)
	}
	return out
}
