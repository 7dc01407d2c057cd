package merge

// Direction is a slide direction
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

var directionNames = [...]string{"left", "right", "up", "down"}

func (d Direction) String() string {
	if d < Left || d > Down {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection maps "left", "right", "up" and "down" to a Direction
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return Left, false
}

// quarter turns clockwise that make each direction a left slide
func (d Direction) turns() int {
	switch d {
	case Down:
		return 1
	case Right:
		return 2
	case Up:
		return 3
	}
	return 0
}

// SlideRow slides one row to the left. It returns the new row and the sum of
// the tiles produced by merges.
func SlideRow(row []int) ([]int, int) {
	compact := make([]int, 0, len(row))
	for _, v := range row {
		if v != 0 {
			compact = append(compact, v)
		}
	}

	out := make([]int, 0, len(row))
	gained := 0
	for i := 0; i < len(compact); i++ {
		if i+1 < len(compact) && compact[i] == compact[i+1] {
			merged := compact[i] * 2
			out = append(out, merged)
			gained += merged
			i++
			continue
		}
		out = append(out, compact[i])
	}

	for len(out) < len(row) {
		out = append(out, 0)
	}
	return out, gained
}

// rotate returns a copy of b turned 90 degrees clockwise
func rotate(b [][]int) [][]int {
	n := len(b)
	out := newBoard(n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out[c][n-1-r] = b[r][c]
		}
	}
	return out
}

func rotateTimes(b [][]int, times int) [][]int {
	out := cloneBoard(b)
	for i := 0; i < times%4; i++ {
		out = rotate(out)
	}
	return out
}

// Slide applies one move to b and returns the resulting board and the merge
// score. b is not modified.
func Slide(b [][]int, dir Direction) ([][]int, int) {
	t := dir.turns()
	work := rotateTimes(b, t)
	gained := 0
	for r := range work {
		row, g := SlideRow(work[r])
		work[r] = row
		gained += g
	}
	return rotateTimes(work, (4-t)%4), gained
}

// CanMove reports whether any slide would change b
func CanMove(b [][]int) bool {
	n := len(b)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := b[r][c]
			if v == 0 {
				return true
			}
			if c+1 < n && b[r][c+1] == v {
				return true
			}
			if r+1 < n && b[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

func newBoard(n int) [][]int {
	b := make([][]int, n)
	for i := range b {
		b[i] = make([]int, n)
	}
	return b
}

func cloneBoard(b [][]int) [][]int {
	out := make([][]int, len(b))
	for i := range b {
		out[i] = append([]int(nil), b[i]...)
	}
	return out
}

func sameBoard(a, b [][]int) bool {
	for r := range a {
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}

func maxTile(b [][]int) int {
	m := 0
	for _, row := range b {
		for _, v := range row {
			if v > m {
				m = v
			}
		}
	}
	return m
}
