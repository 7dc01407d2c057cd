package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/wricardo/neurosphere-arcade/game/arcade"
	"github.com/wricardo/neurosphere-arcade/game/core"
	"github.com/wricardo/neurosphere-arcade/game/service"
)

// Formatting helpers. Snapshots arrive as JSON, so State is a generic map
// and every field goes through cast.

func formatSessionInfo(session *service.SessionInfo) string {
	clock := "stopped"
	if session.ClockRunning {
		clock = "running"
	}
	return fmt.Sprintf("Session: %s\nConfig: %s\nGame: %s\nClock: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigID, session.Game, clock,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(&session.Snapshot))
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	for _, ev := range result.Events {
		fmt.Fprintf(&b, "Event: %s", ev.Type)
		if ev.Message != "" {
			fmt.Fprintf(&b, " (%s)", ev.Message)
		}
		b.WriteString("\n")
	}
	if result.Snapshot.ScoreDelta != 0 {
		fmt.Fprintf(&b, "Score delta: %+d\n", result.Snapshot.ScoreDelta)
	}
	b.WriteString("\n")
	b.WriteString(formatSnapshot(&result.Snapshot))
	return b.String()
}

func formatSnapshot(snap *arcade.Snapshot) string {
	if snap == nil || snap.Kind == "" {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Game: %s | Status: %s | Score: %d\n\n", snap.Kind, snap.Status, snap.Score)

	state := cast.ToStringMap(snap.State)
	switch snap.Kind {
	case core.KindMerge:
		b.WriteString(formatNumberGrid(state["board"], "."))
		fmt.Fprintf(&b, "\nMoves: %d | Max tile: %d | Best: %d\n",
			cast.ToInt(state["moves"]), cast.ToInt(state["max_tile"]), cast.ToInt(state["best_score"]))
	case core.KindStacking:
		b.WriteString(formatStacking(state))
		fmt.Fprintf(&b, "\nLevel: %d | Lines: %d\n", cast.ToInt(state["level"]), cast.ToInt(state["lines"]))
	case core.KindSnake:
		b.WriteString(formatSnake(state))
		fmt.Fprintf(&b, "\nLength: %d\n", len(cast.ToSlice(state["snake"])))
	case core.KindScroller:
		b.WriteString(formatScroller(state))
	case core.KindPairs:
		b.WriteString(formatPairs(state))
		fmt.Fprintf(&b, "\nMatches: %d/%d | Moves: %d\n",
			cast.ToInt(state["matches"]), cast.ToInt(state["pairs"]), cast.ToInt(state["moves"]))
	case core.KindTicTacToe:
		b.WriteString(formatTicTacToe(state))
	default:
		data, _ := json.MarshalIndent(snap.State, "", "  ")
		b.Write(data)
		b.WriteString("\n")
	}
	return b.String()
}

func toGrid(v interface{}) [][]int {
	var grid [][]int
	for _, row := range cast.ToSlice(v) {
		grid = append(grid, cast.ToIntSlice(row))
	}
	return grid
}

// formatNumberGrid prints a grid of ints, zero cells as blank
func formatNumberGrid(v interface{}, blank string) string {
	grid := toGrid(v)
	width := len(blank)
	for _, row := range grid {
		for _, n := range row {
			if w := len(cast.ToString(n)); n != 0 && w > width {
				width = w
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		cells := make([]string, len(row))
		for i, n := range row {
			s := blank
			if n != 0 {
				s = cast.ToString(n)
			}
			cells[i] = fmt.Sprintf("%*s", width, s)
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func formatStacking(state map[string]interface{}) string {
	grid := toGrid(state["board"])
	if active := cast.ToStringMap(state["active"]); len(active) > 0 {
		row, col := cast.ToInt(active["row"]), cast.ToInt(active["col"])
		for r, cells := range toGrid(active["shape"]) {
			for c, v := range cells {
				y, x := row+r, col+c
				if v != 0 && y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
					grid[y][x] = -1
				}
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString("|")
		for _, v := range row {
			switch {
			case v < 0:
				b.WriteString("@")
			case v > 0:
				b.WriteString("#")
			default:
				b.WriteString(".")
			}
		}
		b.WriteString("|\n")
	}
	return b.String()
}

func formatSnake(state map[string]interface{}) string {
	width, height := cast.ToInt(state["width"]), cast.ToInt(state["height"])
	if width <= 0 || height <= 0 {
		return ""
	}

	grid := make([][]byte, height)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(".", width))
	}
	put := func(p interface{}, ch byte) {
		m := cast.ToStringMap(p)
		r, c := cast.ToInt(m["row"]), cast.ToInt(m["col"])
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = ch
		}
	}

	put(state["food"], '*')
	for i, seg := range cast.ToSlice(state["snake"]) {
		if i == 0 {
			continue
		}
		put(seg, 'o')
	}
	if body := cast.ToSlice(state["snake"]); len(body) > 0 {
		put(body[0], '@')
	}

	var b strings.Builder
	for _, row := range grid {
		b.Write(row)
		b.WriteString("\n")
	}
	return b.String()
}

func formatScroller(state map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Actor: y=%.1f velocity=%.2f (field %.0fx%.0f)\n",
		cast.ToFloat64(state["actor_y"]), cast.ToFloat64(state["velocity"]),
		cast.ToFloat64(state["width"]), cast.ToFloat64(state["height"]))

	actorX := cast.ToFloat64(state["actor_x"])
	b.WriteString("Obstacles ahead:\n")
	ahead := 0
	for _, o := range cast.ToSlice(state["obstacles"]) {
		m := cast.ToStringMap(o)
		if cast.ToBool(m["passed"]) {
			continue
		}
		x := cast.ToFloat64(m["x"])
		start, size := cast.ToFloat64(m["gap_start"]), cast.ToFloat64(m["gap_size"])
		fmt.Fprintf(&b, "  %.0f px away, gap %.0f..%.0f\n", math.Max(0, x-actorX), start, start+size)
		ahead++
	}
	if ahead == 0 {
		b.WriteString("  none\n")
	}
	fmt.Fprintf(&b, "Ticks: %d\n", cast.ToInt(state["ticks"]))
	return b.String()
}

func formatPairs(state map[string]interface{}) string {
	var b strings.Builder
	for i, card := range cast.ToSlice(state["cards"]) {
		m := cast.ToStringMap(card)
		face := "??"
		switch {
		case cast.ToBool(m["matched"]):
			face = "[" + cast.ToString(m["symbol"]) + "]"
		case cast.ToBool(m["face_up"]):
			face = cast.ToString(m["symbol"])
		}
		fmt.Fprintf(&b, "%2d:%-4s", i, face)
		if (i+1)%4 == 0 {
			b.WriteString("\n")
		}
	}
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

func formatTicTacToe(state map[string]interface{}) string {
	board := cast.ToStringSlice(state["board"])
	var b strings.Builder
	for r := 0; r < 3; r++ {
		cells := make([]string, 3)
		for c := 0; c < 3; c++ {
			i := r*3 + c
			cells[c] = cast.ToString(i)
			if i < len(board) && board[i] != "" {
				cells[c] = board[i]
			}
		}
		b.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if r < 2 {
			b.WriteString("---+---+---\n")
		}
	}

	switch {
	case cast.ToBool(state["tie"]):
		b.WriteString("\nResult: tie\n")
	case cast.ToString(state["winner"]) != "":
		fmt.Fprintf(&b, "\nWinner: %s\n", cast.ToString(state["winner"]))
	default:
		fmt.Fprintf(&b, "\nTurn: %s\n", cast.ToString(state["turn"]))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, entry := range history.Actions {
		fmt.Fprintf(&b, "%d. %s [%s, score %d", entry.Number, entry.Action, entry.Status, entry.Score)
		if entry.ScoreDelta != 0 {
			fmt.Fprintf(&b, " %+d", entry.ScoreDelta)
		}
		b.WriteString("]\n")
	}

	if history.HasNext {
		b.WriteString("\nMore entries on the next page\n")
	}
	return b.String()
}

var instructions = map[core.Kind]string{
	core.KindMerge: `MERGE BOARD

Tiles slide as far as possible in the chosen direction. Two equal tiles that
meet merge once per move into their sum, which is added to the score. After
every move that changes the board a new 2 (sometimes 4) appears.

Actions: left, right, up, down
Win: reach the target tile (default 2048). You may keep playing after.
Lose: the board is full and no merge is possible.`,

	core.KindStacking: `STACKING

Pieces fall one row per tick. Steer them before they lock. Every full row
clears and scores 100 times the level. Every 10 rows raise the level and
the fall speed.

Actions: left, right, rotate, down (soft drop)
Call start, then tick (or let the server clock run).
Lose: a new piece cannot be placed.`,

	core.KindSnake: `GRID SNAKE

The snake moves one cell per tick. Eating food grows it by one and scores a
point. Reversing onto yourself is ignored.

Actions: up, down, left, right
Call start, then tick (or let the server clock run).
Lose: hitting a wall or your own body.`,

	core.KindScroller: `SCROLLER

Columns scroll towards you. Gravity pulls the actor down every tick; jump
gives an upward kick. Passing a column scores a point.

Actions: jump
Call start, then tick (or let the server clock run).
Lose: touching a column outside its gap, the floor or the ceiling.`,

	core.KindPairs: `PAIR MATCH

Flip two face-down cards by index. After a short delay equal symbols are
matched and score, a mismatch is turned face down. Flips are ignored until
the pair is resolved.

Actions: card index (0 based)
Win: every pair matched.`,

	core.KindTicTacToe: `TIC-TAC-TOE

You play X on a 3x3 board, cells numbered 0-8 row by row. Against the
opponent it answers immediately: it wins when it can, blocks your win,
then prefers the center, a corner and finally any cell.

Actions: cell index 0-8
Win: three in a row. A full board without a line is a tie.`,
}
