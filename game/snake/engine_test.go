package snake

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wricardo/neurosphere-arcade/game/core"
)

func createTestEngine(t *testing.T, cfg Config, rng core.Random) *Engine {
	t.Helper()
	eng, err := New(cfg, rng)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	eng.Start()
	return eng
}

func TestReset(t *testing.T) {
	eng, err := New(DefaultConfig(), core.NewRandom(9))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	state := eng.State()
	if state.Status != core.Idle {
		t.Errorf("Expected idle, got %s", state.Status)
	}
	if diff := cmp.Diff([]Point{{Row: 10, Col: 10}}, state.Snake); diff != "" {
		t.Errorf("Unexpected snake (-want +got):\n%s", diff)
	}
	if state.Food == state.Head() {
		t.Error("Food must not start on the snake")
	}
	if state.Direction != Right {
		t.Errorf("Expected right, got %s", state.Direction)
	}

	cfg := DefaultConfig()
	cfg.Start = Point{Row: 25, Col: 0}
	if _, err := New(cfg, core.NewRandom(1)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestWallCollision(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Start = Point{Row: 0, Col: 19}
	eng := createTestEngine(t, cfg, core.NewScriptedRandom(0))

	state := eng.Tick()
	if state.Status != core.Lost {
		t.Fatalf("Expected lost after hitting the wall, got %s", state.Status)
	}
	if diff := cmp.Diff(state, eng.Tick()); diff != "" {
		t.Errorf("Expected lost game to ignore ticks (-want +got):\n%s", diff)
	}
}

func TestEating(t *testing.T) {
	eng := createTestEngine(t, DefaultConfig(), core.NewScriptedRandom(0))
	eng.food = Point{Row: 10, Col: 11}

	state := eng.Tick()
	if len(state.Snake) != 2 {
		t.Errorf("Expected length 2, got %d", len(state.Snake))
	}
	if state.Score != 10 || state.ScoreDelta != 10 {
		t.Errorf("Expected score 10, got %d (delta %d)", state.Score, state.ScoreDelta)
	}
	for _, p := range state.Snake {
		if p == state.Food {
			t.Errorf("Food respawned on the snake at %+v", p)
		}
	}

	if rejected := eng.ApplyInput(Left); rejected.Score != 10 || rejected.ScoreDelta != 0 {
		t.Errorf("Expected rejected reversal to report score 10 delta 0, got %d %d", rejected.Score, rejected.ScoreDelta)
	}

	state = eng.Tick()
	if len(state.Snake) != 2 || state.ScoreDelta != 0 {
		t.Errorf("Expected plain move to keep length 2 and delta 0, got %d %d", len(state.Snake), state.ScoreDelta)
	}
	if diff := cmp.Diff([]Point{{Row: 10, Col: 12}, {Row: 10, Col: 11}}, state.Snake); diff != "" {
		t.Errorf("Unexpected snake (-want +got):\n%s", diff)
	}
}

func TestDirection(t *testing.T) {
	t.Run("reversal is ignored", func(t *testing.T) {
		eng := createTestEngine(t, DefaultConfig(), core.NewScriptedRandom(0))
		before := eng.State()
		if diff := cmp.Diff(before, eng.ApplyInput(Left)); diff != "" {
			t.Errorf("Expected reversal to be a no-op (-want +got):\n%s", diff)
		}
	})

	t.Run("turn takes effect on next tick", func(t *testing.T) {
		eng := createTestEngine(t, DefaultConfig(), core.NewScriptedRandom(0))
		state := eng.ApplyInput(Up)
		if state.Direction != Right || state.Pending != Up {
			t.Errorf("Expected right pending up, got %s %s", state.Direction, state.Pending)
		}
		state = eng.Tick()
		if state.Head() != (Point{Row: 9, Col: 10}) {
			t.Errorf("Expected head at (9,10), got %+v", state.Head())
		}
	})

	t.Run("reversal is checked against the current direction", func(t *testing.T) {
		eng := createTestEngine(t, DefaultConfig(), core.NewScriptedRandom(0))
		eng.ApplyInput(Up)
		state := eng.ApplyInput(Left)
		if state.Pending != Up {
			t.Errorf("Expected left to be rejected while moving right, got pending %s", state.Pending)
		}
		state = eng.ApplyInput(Down)
		if state.Pending != Down {
			t.Errorf("Expected down to replace the pending turn, got %s", state.Pending)
		}
	})

	t.Run("accepted while idle", func(t *testing.T) {
		eng, _ := New(DefaultConfig(), core.NewScriptedRandom(0))
		if state := eng.ApplyInput(Down); state.Pending != Down {
			t.Errorf("Expected pending down, got %s", state.Pending)
		}
	})
}

func TestSelfCollision(t *testing.T) {
	eng := createTestEngine(t, DefaultConfig(), core.NewScriptedRandom(0))
	eng.snake = []Point{
		{Row: 5, Col: 5},
		{Row: 5, Col: 4},
		{Row: 6, Col: 4},
		{Row: 6, Col: 5},
		{Row: 6, Col: 6},
	}
	eng.food = Point{Row: 0, Col: 0}
	eng.ApplyInput(Down)

	if state := eng.Tick(); state.Status != core.Lost {
		t.Errorf("Expected lost after biting the body, got %s", state.Status)
	}
}

func TestFillingBoardWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 2, 2
	cfg.Start = Point{Row: 0, Col: 0}
	eng := createTestEngine(t, cfg, core.NewScriptedRandom(0))

	if eng.State().Food != (Point{Row: 0, Col: 1}) {
		t.Fatalf("Expected food at (0,1), got %+v", eng.State().Food)
	}
	eng.Tick()
	eng.ApplyInput(Down)
	eng.Tick()
	eng.ApplyInput(Left)
	eng.Tick()
	eng.ApplyInput(Up)
	state := eng.Tick()

	if state.Status != core.Won {
		t.Fatalf("Expected won, got %s", state.Status)
	}
	if len(state.Snake) != 4 || state.Score != 30 {
		t.Errorf("Expected length 4 score 30, got %d %d", len(state.Snake), state.Score)
	}
}

func TestDirectionJSON(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"direction":"up"}`), &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg.Direction != Up {
		t.Errorf("Expected up, got %s", cfg.Direction)
	}
	if err := json.Unmarshal([]byte(`{"direction":"north"}`), &cfg); err == nil {
		t.Error("Expected error for unknown direction")
	}
}
