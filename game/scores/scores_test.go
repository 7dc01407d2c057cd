package scores

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wricardo/neurosphere-arcade/game/merge"
)

var _ merge.BestScoreStore = (*FileStore)(nil)
var _ merge.BestScoreStore = (*SQLiteStore)(nil)

func openStores(t *testing.T) map[string]func(dir string) Store {
	t.Helper()
	return map[string]func(dir string) Store{
		BackendFile: func(dir string) Store {
			s, err := Open(BackendFile, filepath.Join(dir, "scores.json"))
			if err != nil {
				t.Fatalf("Open file store: %v", err)
			}
			return s
		},
		BackendSQLite: func(dir string) Store {
			s, err := Open(BackendSQLite, filepath.Join(dir, "scores.db"))
			if err != nil {
				t.Fatalf("Open sqlite store: %v", err)
			}
			return s
		},
	}
}

func TestStores(t *testing.T) {
	for name, open := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("missing key loads zero", func(t *testing.T) {
				store := open(t.TempDir())
				defer store.Close()

				score, err := store.Load("merge")
				if err != nil {
					t.Fatalf("Load failed: %v", err)
				}
				if score != 0 {
					t.Errorf("Expected 0, got %d", score)
				}
			})

			t.Run("only raises", func(t *testing.T) {
				store := open(t.TempDir())
				defer store.Close()

				for _, s := range []int{120, 80, 300, 299} {
					if err := store.Save("merge", s); err != nil {
						t.Fatalf("Save(%d) failed: %v", s, err)
					}
				}
				score, _ := store.Load("merge")
				if score != 300 {
					t.Errorf("Expected 300, got %d", score)
				}
			})

			t.Run("survives reopen", func(t *testing.T) {
				dir := t.TempDir()
				store := open(dir)
				store.Save("merge", 2048)
				store.Save("snake", 70)
				store.Close()

				reopened := open(dir)
				defer reopened.Close()

				all, err := reopened.All()
				if err != nil {
					t.Fatalf("All failed: %v", err)
				}
				want := map[string]int{"merge": 2048, "snake": 70}
				if diff := cmp.Diff(want, all); diff != "" {
					t.Errorf("scores mismatch (-want +got):\n%s", diff)
				}
			})

			t.Run("concurrent saves", func(t *testing.T) {
				store := open(t.TempDir())
				defer store.Close()

				var wg sync.WaitGroup
				for i := 1; i <= 20; i++ {
					wg.Add(1)
					go func(v int) {
						defer wg.Done()
						if err := store.Save("merge", v*10); err != nil {
							t.Errorf("Save failed: %v", err)
						}
					}(i)
				}
				wg.Wait()

				score, _ := store.Load("merge")
				if score != 200 {
					t.Errorf("Expected 200, got %d", score)
				}
			})
		})
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Error("Expected error for corrupt file")
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("redis", "x"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
