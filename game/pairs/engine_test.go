package pairs

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wricardo/neurosphere-arcade/game/core"
)

// stubTimer never cancels, so a callback can fire after Reset
type stubTimer struct{}

func (stubTimer) Stop() bool { return false }

// MockScheduler implements core.Scheduler for testing
type MockScheduler struct {
	AfterFuncFunc func(d time.Duration, f func()) core.Timer
}

func (m *MockScheduler) AfterFunc(d time.Duration, f func()) core.Timer {
	if m.AfterFuncFunc != nil {
		return m.AfterFuncFunc(d, f)
	}
	return stubTimer{}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func createTestEngine(t *testing.T, cfg Config, opts ...Option) (*Engine, *core.ManualScheduler) {
	t.Helper()
	sched := core.NewManualScheduler()
	frozen := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithScheduler(sched), WithClock(frozen.Now)}, opts...)
	eng, err := New(cfg, core.NewRandom(11), opts...)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng, sched
}

// findPair returns two indices sharing a symbol and one index that differs
func findPair(t *testing.T, cards []Card) (int, int, int) {
	t.Helper()
	for i := range cards {
		for j := i + 1; j < len(cards); j++ {
			if cards[i].Symbol == cards[j].Symbol {
				for k := range cards {
					if cards[k].Symbol != cards[i].Symbol {
						return i, j, k
					}
				}
			}
		}
	}
	t.Fatal("No pair found")
	return 0, 0, 0
}

func TestDeal(t *testing.T) {
	eng, _ := createTestEngine(t, DefaultConfig())
	state := eng.State()
	if len(state.Cards) != 16 || state.Pairs != 8 {
		t.Fatalf("Expected 16 cards and 8 pairs, got %d %d", len(state.Cards), state.Pairs)
	}
	counts := map[string]int{}
	for _, c := range state.Cards {
		counts[c.Symbol]++
		if c.FaceUp || c.Matched {
			t.Error("Expected every card face down")
		}
	}
	for _, s := range DefaultSymbols {
		if counts[s] != 2 {
			t.Errorf("Expected symbol %s twice, got %d", s, counts[s])
		}
	}
	if state.Status != core.Idle {
		t.Errorf("Expected idle, got %s", state.Status)
	}

	bad := DefaultConfig()
	bad.Symbols = []string{"A", "A"}
	if _, err := New(bad, core.NewRandom(1)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestMatch(t *testing.T) {
	eng, sched := createTestEngine(t, DefaultConfig())
	a, b, _ := findPair(t, eng.State().Cards)

	state := eng.ApplyInput(a)
	if state.Status != core.Running {
		t.Errorf("Expected first flip to start the game, got %s", state.Status)
	}
	state = eng.ApplyInput(b)
	if state.Moves != 1 {
		t.Errorf("Expected 1 move, got %d", state.Moves)
	}
	if diff := cmp.Diff([]int{a, b}, state.Pending); diff != "" {
		t.Errorf("Unexpected pending (-want +got):\n%s", diff)
	}

	sched.Advance(499 * time.Millisecond)
	if eng.State().Cards[a].Matched {
		t.Fatal("Expected match to wait for the delay")
	}

	sched.Advance(time.Millisecond)
	state = eng.State()
	if !state.Cards[a].Matched || !state.Cards[b].Matched {
		t.Error("Expected both cards matched")
	}
	if state.Matches != 1 || state.Score != 1 || len(state.Pending) != 0 {
		t.Errorf("Expected 1 match and no pending, got %d %d %v", state.Matches, state.Score, state.Pending)
	}
	if state.ScoreDelta != 1 {
		t.Errorf("Expected delta 1 from the match, got %d", state.ScoreDelta)
	}

	state = eng.ApplyInput(a)
	if state.Score != 1 || state.ScoreDelta != 0 {
		t.Errorf("Expected flipping a matched card to report score 1 delta 0, got %d %d", state.Score, state.ScoreDelta)
	}
}

func TestMismatch(t *testing.T) {
	eng, sched := createTestEngine(t, DefaultConfig())
	a, _, c := findPair(t, eng.State().Cards)

	eng.ApplyInput(a)
	eng.ApplyInput(c)

	sched.Advance(500 * time.Millisecond)
	if !eng.State().Cards[a].FaceUp {
		t.Fatal("Expected mismatch to wait for the longer delay")
	}

	sched.Advance(500 * time.Millisecond)
	state := eng.State()
	if state.Cards[a].FaceUp || state.Cards[c].FaceUp {
		t.Error("Expected both cards face down again")
	}
	if state.Matches != 0 || state.Moves != 1 {
		t.Errorf("Expected 0 matches 1 move, got %d %d", state.Matches, state.Moves)
	}
}

func TestIgnoredFlips(t *testing.T) {
	eng, _ := createTestEngine(t, DefaultConfig())
	a, b, c := findPair(t, eng.State().Cards)

	first := eng.ApplyInput(a)
	if diff := cmp.Diff(first, eng.ApplyInput(a)); diff != "" {
		t.Errorf("Expected re-flipping a face-up card to be ignored (-want +got):\n%s", diff)
	}

	pending := eng.ApplyInput(c)
	if diff := cmp.Diff(pending, eng.ApplyInput(b)); diff != "" {
		t.Errorf("Expected a third flip to be ignored (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pending, eng.ApplyInput(99)); diff != "" {
		t.Errorf("Expected out of range index to be ignored (-want +got):\n%s", diff)
	}
}

func TestWinAndElapsed(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	cfg := Config{Symbols: []string{"A"}, MatchDelay: core.Duration(500 * time.Millisecond), MismatchDelay: core.Duration(time.Second)}

	var resolved []State
	eng, sched := createTestEngine(t, cfg,
		WithClock(clock.Now),
		WithResolveHook(func(s State) { resolved = append(resolved, s) }))

	eng.ApplyInput(0)
	clock.t = clock.t.Add(3 * time.Second)
	eng.ApplyInput(1)
	clock.t = clock.t.Add(500 * time.Millisecond)
	sched.Advance(500 * time.Millisecond)

	state := eng.State()
	if state.Status != core.Won {
		t.Fatalf("Expected won, got %s", state.Status)
	}
	if state.Elapsed.Std() != 3500*time.Millisecond {
		t.Errorf("Expected 3.5s elapsed, got %v", state.Elapsed)
	}

	clock.t = clock.t.Add(time.Hour)
	if eng.State().Elapsed.Std() != 3500*time.Millisecond {
		t.Error("Expected elapsed time to freeze once won")
	}
	if len(resolved) != 1 || resolved[0].Status != core.Won {
		t.Errorf("Expected one resolve hook call with won state, got %d", len(resolved))
	}
}

func TestResetCancelsPendingResolution(t *testing.T) {
	t.Run("timer stopped", func(t *testing.T) {
		eng, sched := createTestEngine(t, DefaultConfig())
		a, _, c := findPair(t, eng.State().Cards)
		eng.ApplyInput(a)
		eng.ApplyInput(c)

		fresh := eng.Reset()
		if sched.Pending() != 0 {
			t.Errorf("Expected reset to stop the timer, %d pending", sched.Pending())
		}
		sched.Advance(2 * time.Second)
		if diff := cmp.Diff(fresh, eng.State()); diff != "" {
			t.Errorf("Expected no stale mutation (-want +got):\n%s", diff)
		}
	})

	t.Run("stale callback is a no-op", func(t *testing.T) {
		var fire func()
		sched := &MockScheduler{
			AfterFuncFunc: func(d time.Duration, f func()) core.Timer {
				fire = f
				return stubTimer{}
			},
		}
		eng, err := New(Config{Symbols: []string{"A", "B"}}, core.NewRandom(5), WithScheduler(sched))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		eng.ApplyInput(0)
		eng.ApplyInput(1)
		if fire == nil {
			t.Fatal("Expected a scheduled resolution")
		}

		fresh := eng.Reset()
		fire()
		if diff := cmp.Diff(fresh, eng.State()); diff != "" {
			t.Errorf("Expected stale callback to be ignored (-want +got):\n%s", diff)
		}
	})
}

func TestWallClockResolution(t *testing.T) {
	cfg := Config{Symbols: []string{"A", "B"}, MatchDelay: core.Duration(time.Millisecond), MismatchDelay: core.Duration(time.Millisecond)}
	resolved := make(chan State, 4)
	eng, err := New(cfg, core.NewRandom(3), WithResolveHook(func(s State) { resolved <- s }))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	a, b, c := findPair(t, eng.State().Cards)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				eng.State()
				eng.ApplyInput(-1)
			}
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	await := func() State {
		t.Helper()
		select {
		case s := <-resolved:
			return s
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for resolution")
			return State{}
		}
	}

	eng.ApplyInput(a)
	eng.ApplyInput(c)
	if s := await(); s.Cards[a].FaceUp || s.Cards[c].FaceUp {
		t.Error("Expected mismatched cards face down")
	}

	eng.ApplyInput(a)
	eng.ApplyInput(b)
	if s := await(); !s.Cards[a].Matched || s.Matches != 1 {
		t.Errorf("Expected a match, got matched=%v matches=%d", s.Cards[a].Matched, s.Matches)
	}
}

func TestMasked(t *testing.T) {
	eng, _ := createTestEngine(t, DefaultConfig())
	a, _, _ := findPair(t, eng.State().Cards)
	eng.ApplyInput(a)

	masked := eng.State().Masked()
	for i, c := range masked.Cards {
		if i == a {
			if c.Symbol == "" {
				t.Error("Expected the face-up card to stay visible")
			}
			continue
		}
		if c.Symbol != "" {
			t.Errorf("Expected card %d to be hidden, got %q", i, c.Symbol)
		}
	}
	if eng.State().Cards[(a+1)%16].Symbol == "" {
		t.Error("Masked must not modify the engine")
	}
}
