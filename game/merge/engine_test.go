package merge

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wricardo/neurosphere-arcade/game/core"
)

// MockStore implements BestScoreStore for testing
type MockStore struct {
	LoadFunc func(key string) (int, error)
	SaveFunc func(key string, score int) error
}

func (m *MockStore) Load(key string) (int, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(key)
	}
	return 0, nil
}

func (m *MockStore) Save(key string, score int) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(key, score)
	}
	return nil
}

func countTiles(b [][]int) int {
	n := 0
	for _, row := range b {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// createTestEngine always spawns 2 in the first empty cell
func createTestEngine(t *testing.T, cfg Config, opts ...Option) (*Engine, *core.ScriptedRandom) {
	t.Helper()
	rng := core.NewScriptedRandom(0, 99)
	eng, err := New(cfg, rng, opts...)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng, rng
}

func TestNew(t *testing.T) {
	t.Run("reset spawns start tiles in Idle", func(t *testing.T) {
		eng, err := New(DefaultConfig(), core.NewRandom(7))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		state := eng.State()
		if state.Status != core.Idle {
			t.Errorf("Expected idle, got %s", state.Status)
		}
		if countTiles(state.Board) != 2 {
			t.Errorf("Expected 2 start tiles, got %d", countTiles(state.Board))
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WinTile = 1000
		if _, err := New(cfg, core.NewRandom(1)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("nil random", func(t *testing.T) {
		if _, err := New(DefaultConfig(), nil); err == nil {
			t.Error("Expected error for nil random source")
		}
	})
}

func TestApplyInput(t *testing.T) {
	t.Run("changing move spawns exactly one tile", func(t *testing.T) {
		eng, _ := createTestEngine(t, DefaultConfig())
		eng.board = [][]int{
			{2, 2, 0, 0},
			{0, 0, 0, 4},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}

		state := eng.ApplyInput(Left)
		want := [][]int{
			{4, 2, 0, 0},
			{4, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}
		if diff := cmp.Diff(want, state.Board); diff != "" {
			t.Errorf("Unexpected board (-want +got):\n%s", diff)
		}
		if state.Score != 4 || state.ScoreDelta != 4 {
			t.Errorf("Expected score 4 delta 4, got %d %d", state.Score, state.ScoreDelta)
		}
		if state.Status != core.Running {
			t.Errorf("Expected running, got %s", state.Status)
		}
		if state.Moves != 1 {
			t.Errorf("Expected 1 move, got %d", state.Moves)
		}
	})

	t.Run("unchanged board is a no-op", func(t *testing.T) {
		eng, rng := createTestEngine(t, DefaultConfig())
		eng.board = [][]int{
			{2, 4, 8, 16},
			{4, 8, 16, 32},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}
		before := eng.State()
		calls := rng.Calls()

		after := eng.ApplyInput(Left)
		if diff := cmp.Diff(before, after); diff != "" {
			t.Errorf("Expected no change (-before +after):\n%s", diff)
		}
		if rng.Calls() != calls {
			t.Error("Expected no random draws for a no-op move")
		}
	})

	t.Run("no-op after a merge reports no score delta", func(t *testing.T) {
		eng, _ := createTestEngine(t, DefaultConfig())
		eng.board = [][]int{
			{2, 2, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}
		if state := eng.ApplyInput(Left); state.ScoreDelta != 4 {
			t.Fatalf("Expected delta 4 from the merge, got %d", state.ScoreDelta)
		}
		eng.board = [][]int{
			{4, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}

		state := eng.ApplyInput(Left)
		if state.Score != 4 || state.ScoreDelta != 0 {
			t.Errorf("Expected score 4 delta 0, got %d %d", state.Score, state.ScoreDelta)
		}
	})

	t.Run("snapshot does not alias engine", func(t *testing.T) {
		eng, _ := createTestEngine(t, DefaultConfig())
		state := eng.State()
		state.Board[0][0] = 1024
		if eng.State().Board[0][0] == 1024 {
			t.Error("Mutating a snapshot changed the engine")
		}
	})

	t.Run("reaching the win tile is sticky and playable", func(t *testing.T) {
		cfg := Config{Size: 2, WinTile: 4, FourChance: 0, StartTiles: 1}
		eng, _ := createTestEngine(t, cfg)
		eng.board = [][]int{{2, 2}, {0, 0}}

		state := eng.ApplyInput(Left)
		if state.Status != core.Won {
			t.Fatalf("Expected won, got %s", state.Status)
		}
		if state.Continued {
			t.Error("Expected continued to be false on the winning move")
		}

		state = eng.ApplyInput(Down)
		if state.Status != core.Won {
			t.Errorf("Expected won to persist, got %s", state.Status)
		}
		if !state.Continued {
			t.Error("Expected continued after playing past the win")
		}
	})

	t.Run("locked board is lost and terminal", func(t *testing.T) {
		cfg := Config{Size: 2, WinTile: 2048, FourChance: 10, StartTiles: 1}
		eng, _ := createTestEngine(t, cfg)
		eng.board = [][]int{{2, 4}, {0, 8}}

		state := eng.ApplyInput(Left)
		if diff := cmp.Diff([][]int{{2, 4}, {8, 2}}, state.Board); diff != "" {
			t.Errorf("Unexpected board (-want +got):\n%s", diff)
		}
		if state.Status != core.Lost {
			t.Fatalf("Expected lost, got %s", state.Status)
		}

		again := eng.ApplyInput(Right)
		if diff := cmp.Diff(state, again); diff != "" {
			t.Errorf("Expected lost board to ignore input (-want +got):\n%s", diff)
		}
	})

	t.Run("four spawned by chance", func(t *testing.T) {
		eng, err := New(Config{Size: 2, WinTile: 2048, FourChance: 10, StartTiles: 1}, core.NewScriptedRandom(0, 5))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if eng.State().Board[0][0] != 4 {
			t.Errorf("Expected a 4 tile, got %v", eng.State().Board)
		}
	})
}

func TestReset(t *testing.T) {
	eng, _ := createTestEngine(t, DefaultConfig())
	eng.board = [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	eng.ApplyInput(Left)

	state := eng.Reset()
	if state.Score != 0 || state.Moves != 0 || state.Status != core.Idle {
		t.Errorf("Expected fresh state, got %+v", state)
	}
	if state.BestScore != 4 {
		t.Errorf("Expected best score to survive reset, got %d", state.BestScore)
	}
}

func TestBestScoreStore(t *testing.T) {
	t.Run("loaded at construction and saved when beaten", func(t *testing.T) {
		var saved []int
		store := &MockStore{
			LoadFunc: func(key string) (int, error) {
				if key != BestScoreKey {
					t.Errorf("Expected key %s, got %s", BestScoreKey, key)
				}
				return 2, nil
			},
			SaveFunc: func(key string, score int) error {
				saved = append(saved, score)
				return nil
			},
		}
		eng, _ := createTestEngine(t, DefaultConfig(), WithBestScoreStore(store))
		if eng.State().BestScore != 2 {
			t.Fatalf("Expected best score 2, got %d", eng.State().BestScore)
		}

		eng.board = [][]int{
			{2, 2, 4, 4},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}
		state := eng.ApplyInput(Left)
		if state.BestScore != 12 {
			t.Errorf("Expected best score 12, got %d", state.BestScore)
		}
		if diff := cmp.Diff([]int{12}, saved); diff != "" {
			t.Errorf("Unexpected saves (-want +got):\n%s", diff)
		}
	})

	t.Run("store errors are reported, never fatal", func(t *testing.T) {
		var reported []error
		store := &MockStore{
			LoadFunc: func(string) (int, error) { return 0, errors.New("disk gone") },
			SaveFunc: func(string, int) error { return errors.New("disk gone") },
		}
		eng, _ := createTestEngine(t, DefaultConfig(),
			WithBestScoreStore(store),
			WithStoreErrorHandler(func(err error) { reported = append(reported, err) }))

		eng.board = [][]int{
			{2, 2, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}
		state := eng.ApplyInput(Left)
		if state.Score != 4 {
			t.Errorf("Expected the move to apply, got score %d", state.Score)
		}
		if len(reported) != 2 {
			t.Errorf("Expected 2 reported errors, got %d", len(reported))
		}
	})
}
