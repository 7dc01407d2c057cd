package arcade

import "github.com/wricardo/neurosphere-arcade/game/core"

// GameInfo describes one kind for clients
type GameInfo struct {
	Kind        core.Kind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Actions     []string  `json:"actions"`
	TickDriven  bool      `json:"tick_driven"`
}

// Catalog lists every game kind in display order
func Catalog() []GameInfo {
	return []GameInfo{
		{
			Kind:        core.KindMerge,
			Title:       "Merge Board",
			Description: "Slide tiles and merge equal neighbours to reach 2048",
			Actions:     []string{"left", "right", "up", "down"},
		},
		{
			Kind:        core.KindStacking,
			Title:       "Stacking",
			Description: "Steer falling pieces and clear full rows",
			Actions:     []string{"left", "right", "rotate", "down"},
			TickDriven:  true,
		},
		{
			Kind:        core.KindSnake,
			Title:       "Grid Snake",
			Description: "Eat food, grow, and avoid walls and yourself",
			Actions:     []string{"up", "down", "left", "right"},
			TickDriven:  true,
		},
		{
			Kind:        core.KindScroller,
			Title:       "Scroller",
			Description: "Jump through the gaps of scrolling columns",
			Actions:     []string{"jump"},
			TickDriven:  true,
		},
		{
			Kind:        core.KindPairs,
			Title:       "Pair Match",
			Description: "Flip cards two at a time and find every pair",
			Actions:     []string{"<card index>"},
		},
		{
			Kind:        core.KindTicTacToe,
			Title:       "Tic-Tac-Toe",
			Description: "Three in a row against a heuristic opponent",
			Actions:     []string{"<cell 0-8>"},
		},
	}
}

// Info returns the catalog entry for kind
func Info(kind core.Kind) (GameInfo, bool) {
	for _, info := range Catalog() {
		if info.Kind == kind {
			return info, true
		}
	}
	return GameInfo{}, false
}
