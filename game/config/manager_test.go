package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/neurosphere-arcade/game/arcade"
	"github.com/wricardo/neurosphere-arcade/game/core"
	"github.com/wricardo/neurosphere-arcade/game/snake"
)

func createTestConfigDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

func createValidPreset(name string) *arcade.Preset {
	cfg := snake.DefaultConfig()
	cfg.Interval = core.Duration(100 * time.Millisecond)
	return &arcade.Preset{
		Name:        name,
		Description: "Test preset",
		Game:        core.KindSnake,
		Snake:       &cfg,
	}
}

func writeConfigFile(t *testing.T, dir, name string, preset *arcade.Preset) {
	t.Helper()
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal preset: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write preset file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("classic becomes the default", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeConfigFile(t, dir, "classic", createValidPreset("Classic"))
		writeConfigFile(t, dir, "alpha", createValidPreset("Alpha"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Classic" {
			t.Errorf("Expected default 'Classic', got '%s'", got)
		}
	})

	t.Run("first file without classic", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeConfigFile(t, dir, "zeta", createValidPreset("Zeta"))
		writeConfigFile(t, dir, "alpha", createValidPreset("Alpha"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Alpha" {
			t.Errorf("Expected default 'Alpha', got '%s'", got)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in", func(t *testing.T) {
		manager, err := NewManager(createTestConfigDir(t))
		if err != nil {
			t.Fatalf("NewManager should succeed without preset files, got error: %v", err)
		}
		def := manager.GetDefault()
		if def == nil || def.Game != core.KindMerge {
			t.Errorf("Expected built-in merge default, got %+v", def)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "fast", createValidPreset("Fast"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing preset", func(t *testing.T) {
		preset, err := manager.LoadConfig("fast")
		if err != nil {
			t.Fatalf("Failed to load preset: %v", err)
		}
		if preset.Name != "Fast" || preset.Snake.Interval.Std() != 100*time.Millisecond {
			t.Errorf("Unexpected preset: %+v", preset)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		preset, err := manager.LoadConfig("fast.json")
		if err != nil {
			t.Fatalf("Failed to load preset with extension: %v", err)
		}
		if preset.Name != "Fast" {
			t.Errorf("Expected 'Fast', got '%s'", preset.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadConfig("fast")
		second, err := manager.LoadConfig("fast")
		if err != nil {
			t.Fatalf("Failed to load preset from cache: %v", err)
		}
		if first != second {
			t.Error("Expected preset to be loaded from cache")
		}
	})

	t.Run("built-in kind", func(t *testing.T) {
		preset, err := manager.LoadConfig("tictactoe")
		if err != nil {
			t.Fatalf("Failed to load built-in preset: %v", err)
		}
		if preset.Game != core.KindTicTacToe {
			t.Errorf("Expected tictactoe, got %s", preset.Game)
		}
	})

	t.Run("load non-existent preset", func(t *testing.T) {
		if _, err := manager.LoadConfig("non-existent"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
		if _, err := manager.LoadConfig("../etc/passwd"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound for a path, got %v", err)
		}
	})

	t.Run("load invalid preset", func(t *testing.T) {
		data := []byte(`{"name": "Broken", "game": "snake", "snake": {"width": 1}}`)
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), data, 0644); err != nil {
			t.Fatalf("Failed to write invalid preset: %v", err)
		}
		if _, err := manager.LoadConfig("invalid"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		data := []byte(`{"name": "Malformed", invalid json}`)
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), data, 0644); err != nil {
			t.Fatalf("Failed to write malformed preset: %v", err)
		}
		if _, err := manager.LoadConfig("malformed"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "easy", createValidPreset("Easy"))
	writeConfigFile(t, dir, "snake", createValidPreset("Custom Snake"))
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list presets: %v", err)
	}

	// 2 files + 5 built-ins not overridden
	if len(configs) != 7 {
		t.Fatalf("Expected 7 presets, got %d", len(configs))
	}

	byID := make(map[string]bool)
	for _, info := range configs {
		byID[info.ConfigID] = info.BuiltIn
		if info.ConfigID == "snake" && info.Name != "Custom Snake" {
			t.Errorf("Expected snake file to override the built-in, got '%s'", info.Name)
		}
		if info.ConfigID == "stacking" && !info.TickDriven {
			t.Error("Expected stacking to be tick driven")
		}
	}
	if builtIn, ok := byID["easy"]; !ok || builtIn {
		t.Error("Expected easy listed as a file preset")
	}
	if builtIn, ok := byID["merge"]; !ok || !builtIn {
		t.Error("Expected merge listed as a built-in preset")
	}
	if _, ok := byID["broken"]; ok {
		t.Error("Expected broken preset to be skipped")
	}
}

func TestManager_SaveAndReload(t *testing.T) {
	dir := createTestConfigDir(t)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	preset := createValidPreset("Changeable")
	if err := manager.SaveConfig("changeable", preset); err != nil {
		t.Fatalf("Failed to save preset: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "changeable.json")); err != nil {
		t.Fatalf("Expected file on disk: %v", err)
	}

	changed := createValidPreset("Changeable")
	changed.Snake.FoodReward = 25
	writeConfigFile(t, dir, "changeable", changed)

	if err := manager.ReloadConfig("changeable"); err != nil {
		t.Fatalf("Failed to reload preset: %v", err)
	}
	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.Snake.FoodReward != 25 {
		t.Errorf("Expected reloaded food reward 25, got %d", reloaded.Snake.FoodReward)
	}

	t.Run("invalid preset is not written", func(t *testing.T) {
		bad := createValidPreset("")
		if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(err) {
			t.Error("Expected no file for an invalid preset")
		}
	})

	t.Run("path names are rejected", func(t *testing.T) {
		if err := manager.SaveConfig("../escape", preset); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "classic", createValidPreset("Classic"))
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("pairs"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if manager.GetDefault().Game != core.KindPairs {
		t.Errorf("Expected pairs default, got %s", manager.GetDefault().Game)
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}
	if manager.GetDefault().Name != "Classic" {
		t.Errorf("Expected refresh to restore classic default, got %s", manager.GetDefault().Name)
	}
}

func TestManager_ValidateConfig(t *testing.T) {
	manager, err := NewManager(createTestConfigDir(t))
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.ValidateConfig(createValidPreset("Ok")); err != nil {
		t.Errorf("Expected valid preset to pass validation: %v", err)
	}

	wrongSection := createValidPreset("Mixed")
	wrongSection.Game = core.KindMerge
	if err := manager.ValidateConfig(wrongSection); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "shared", createValidPreset("Shared"))
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("shared"); err != nil {
				t.Errorf("Concurrent load failed: %v", err)
			}
			if _, err := manager.ListConfigs(); err != nil {
				t.Errorf("Concurrent list failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestValidateDir(t *testing.T) {
	dir := createTestConfigDir(t)
	writeConfigFile(t, dir, "good", createValidPreset("Good"))
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"name":"Bad","game":"chess"}`), 0644)

	results, err := ValidateDir(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	// sorted: bad.json, good.json
	if results[0].Valid || results[0].File != "bad.json" {
		t.Errorf("Expected bad.json to fail, got %+v", results[0])
	}
	if !results[1].Valid {
		t.Errorf("Expected good.json to pass, got %+v", results[1])
	}
	if len(results[1].Messages) < 3 {
		t.Errorf("Expected informational lines, got %v", results[1].Messages)
	}
}
