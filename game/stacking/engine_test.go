package stacking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wricardo/neurosphere-arcade/game/core"
)

// createRunningEngine always draws the I piece
func createRunningEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(DefaultConfig(), core.NewScriptedRandom(0))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	eng.Start()
	return eng
}

func TestLifecycle(t *testing.T) {
	eng, err := New(DefaultConfig(), core.NewRandom(3))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	state := eng.State()
	if state.Status != core.Idle || state.Active != nil {
		t.Fatalf("Expected idle with no piece, got %s %v", state.Status, state.Active)
	}
	if idle := eng.Tick(); idle.Status != core.Idle {
		t.Error("Expected tick to be ignored while idle")
	}

	state = eng.Start()
	if state.Status != core.Running || state.Active == nil {
		t.Fatalf("Expected running with a piece, got %s %v", state.Status, state.Active)
	}
	if state.Active.Row != 0 {
		t.Errorf("Expected spawn on row 0, got %d", state.Active.Row)
	}

	state = eng.Tick()
	if state.Active.Row != 1 {
		t.Errorf("Expected piece to fall to row 1, got %d", state.Active.Row)
	}

	state = eng.Reset()
	if state.Status != core.Idle || state.Level != 1 {
		t.Errorf("Expected fresh idle state, got %+v", state)
	}

	cfg := DefaultConfig()
	cfg.MinInterval = 0
	if _, err := New(cfg, core.NewRandom(1)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestSpawnPosition(t *testing.T) {
	eng := createRunningEngine(t)
	p := eng.State().Active
	if p.Kind != "I" || p.Color != 1 {
		t.Errorf("Expected I piece color 1, got %s %d", p.Kind, p.Color)
	}
	if p.Col != 4 {
		t.Errorf("Expected spawn column 4, got %d", p.Col)
	}

	narrow := DefaultConfig()
	narrow.Width = 4
	eng, err := New(narrow, core.NewScriptedRandom(0))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if col := eng.Start().Active.Col; col != 0 {
		t.Errorf("Expected I piece clamped to column 0, got %d", col)
	}
}

func TestLineClear(t *testing.T) {
	eng := createRunningEngine(t)
	eng.board[19] = []int{1, 1, 1, 1, 0, 0, 0, 0, 1, 1}
	eng.board[18][0] = 2

	var state State
	for i := 0; i < 19; i++ {
		state = eng.Tick()
	}
	if state.Active.Row != 19 {
		t.Fatalf("Expected piece on row 19, got %d", state.Active.Row)
	}

	state = eng.Tick()
	if state.Cleared != 1 {
		t.Errorf("Expected 1 cleared row, got %d", state.Cleared)
	}
	if state.Score != 100 || state.ScoreDelta != 100 {
		t.Errorf("Expected score 100, got %d (delta %d)", state.Score, state.ScoreDelta)
	}
	if len(state.Board) != 20 {
		t.Errorf("Expected board height 20, got %d", len(state.Board))
	}
	if state.Board[19][0] != 2 {
		t.Errorf("Expected row above to shift down, got %v", state.Board[19])
	}
	if state.Lines != 1 || state.Level != 1 {
		t.Errorf("Expected lines 1 level 1, got %d %d", state.Lines, state.Level)
	}
	if state.Active == nil || state.Active.Row != 0 {
		t.Error("Expected a new piece at the top")
	}

	eng.active.Col = 0
	rejected := eng.ApplyInput(MoveLeft)
	if rejected.Score != 100 || rejected.ScoreDelta != 0 || rejected.Cleared != 0 {
		t.Errorf("Expected rejected move to report score 100 delta 0 cleared 0, got %d %d %d",
			rejected.Score, rejected.ScoreDelta, rejected.Cleared)
	}

	next := eng.Tick()
	if next.ScoreDelta != 0 || next.Cleared != 0 {
		t.Errorf("Expected delta reset on the next tick, got %d %d", next.ScoreDelta, next.Cleared)
	}
}

func TestLevelFromCumulativeLines(t *testing.T) {
	eng := createRunningEngine(t)
	eng.lines = 9
	eng.board[19] = []int{1, 1, 1, 1, 0, 0, 0, 0, 1, 1}
	eng.active.Row = 19

	state := eng.Tick()
	if state.Score != 100 {
		t.Errorf("Expected clear scored at level 1, got %d", state.Score)
	}
	if state.Lines != 10 || state.Level != 2 {
		t.Errorf("Expected lines 10 level 2, got %d %d", state.Lines, state.Level)
	}
	if eng.TickInterval() != 500*time.Millisecond {
		t.Errorf("Expected 500ms interval, got %v", eng.TickInterval())
	}

	eng.level = 40
	if eng.TickInterval() != 100*time.Millisecond {
		t.Errorf("Expected interval floor of 100ms, got %v", eng.TickInterval())
	}
}

func TestTopOut(t *testing.T) {
	eng := createRunningEngine(t)
	eng.board[1] = []int{0, 1, 1, 1, 1, 1, 1, 1, 1, 1}

	state := eng.Tick()
	if state.Status != core.Lost {
		t.Fatalf("Expected lost, got %s", state.Status)
	}
	if state.Active != nil {
		t.Error("Expected no active piece after topping out")
	}

	after := eng.ApplyInput(MoveLeft)
	if diff := cmp.Diff(state, eng.Tick()); diff != "" {
		t.Errorf("Expected lost game to ignore ticks (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(state, after); diff != "" {
		t.Errorf("Expected lost game to ignore input (-want +got):\n%s", diff)
	}
}

func TestApplyInput(t *testing.T) {
	t.Run("moves until the wall then rejects", func(t *testing.T) {
		eng := createRunningEngine(t)
		for i := 0; i < 4; i++ {
			eng.ApplyInput(MoveLeft)
		}
		before := eng.State()
		if before.Active.Col != 0 {
			t.Fatalf("Expected column 0, got %d", before.Active.Col)
		}
		if diff := cmp.Diff(before, eng.ApplyInput(MoveLeft)); diff != "" {
			t.Errorf("Expected rejected move to change nothing (-want +got):\n%s", diff)
		}

		state := eng.ApplyInput(MoveRight)
		if state.Active.Col != 1 {
			t.Errorf("Expected column 1, got %d", state.Active.Col)
		}
	})

	t.Run("rotation without wall kick", func(t *testing.T) {
		eng := createRunningEngine(t)
		state := eng.ApplyInput(RotateCW)
		if len(state.Active.Shape) != 4 {
			t.Fatalf("Expected vertical I, got %v", state.Active.Shape)
		}

		eng.Reset()
		eng.Start()
		eng.active.Row = 18
		before := eng.State()
		if diff := cmp.Diff(before, eng.ApplyInput(RotateCW)); diff != "" {
			t.Errorf("Expected rotation through the floor to be rejected (-want +got):\n%s", diff)
		}
	})

	t.Run("soft drop never locks", func(t *testing.T) {
		eng := createRunningEngine(t)
		if row := eng.ApplyInput(SoftDrop).Active.Row; row != 1 {
			t.Errorf("Expected row 1, got %d", row)
		}

		eng.active.Row = 19
		before := eng.State()
		if diff := cmp.Diff(before, eng.ApplyInput(SoftDrop)); diff != "" {
			t.Errorf("Expected soft drop at the floor to be rejected (-want +got):\n%s", diff)
		}
	})

	t.Run("ignored while idle", func(t *testing.T) {
		eng, _ := New(DefaultConfig(), core.NewRandom(1))
		if diff := cmp.Diff(eng.State(), eng.ApplyInput(MoveRight)); diff != "" {
			t.Errorf("Expected idle engine to ignore input (-want +got):\n%s", diff)
		}
	})
}

func TestOverlay(t *testing.T) {
	eng := createRunningEngine(t)
	grid := eng.State().Overlay()
	for c := 4; c < 8; c++ {
		if grid[0][c] != 1 {
			t.Errorf("Expected active piece at (0,%d), got %d", c, grid[0][c])
		}
	}
	if eng.State().Board[0][4] != 0 {
		t.Error("Overlay must not write into the settled board")
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]Action{"left": MoveLeft, "right": MoveRight, "rotate": RotateCW, "down": SoftDrop, "softdrop": SoftDrop}
	for name, want := range cases {
		got, ok := ParseAction(name)
		if !ok || got != want {
			t.Errorf("Expected %s to parse to %d, got %d %v", name, want, got, ok)
		}
	}
	if _, ok := ParseAction("hold"); ok {
		t.Error("Expected hold to be rejected")
	}
}
