package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Settings{
		Host:            "localhost",
		Port:            8080,
		PresetsDir:      "configs",
		ScoresBackend:   "file",
		ScoresPath:      "scores.json",
		SessionTTL:      24 * time.Hour,
		CleanupInterval: time.Hour,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if s.Addr() != "localhost:8080" {
		t.Errorf("Unexpected addr %s", s.Addr())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	yaml := "port: 9090\nscores_backend: sqlite\nsession_ttl: 30m\n"
	if err := os.WriteFile(filepath.Join(dir, "arcade.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARCADE_HOST", "0.0.0.0")
	t.Setenv("ARCADE_DEBUG", "true")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Port != 9090 || s.Host != "0.0.0.0" || !s.Debug {
		t.Errorf("Unexpected settings: %+v", s)
	}
	if s.ScoresPath != "scores.db" {
		t.Errorf("Expected sqlite default path, got %s", s.ScoresPath)
	}
	if s.SessionTTL != 30*time.Minute {
		t.Errorf("Expected 30m TTL, got %v", s.SessionTTL)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := Load("nope.yaml"); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("bad backend", func(t *testing.T) {
		t.Setenv("ARCADE_SCORES_BACKEND", "redis")
		if _, err := Load(""); err == nil {
			t.Error("Expected error for unknown backend")
		}
	})
}
