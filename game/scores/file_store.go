package scores

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements Store on a single JSON file
type FileStore struct {
	path   string
	scores map[string]int
	mu     sync.Mutex
}

// NewFileStore opens the JSON file at path, creating its directory if needed.
// A missing file is an empty store.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create scores directory: %w", err)
	}

	fs := &FileStore{path: path, scores: make(map[string]int)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scores file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fs.scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
		}
	}
	return fs, nil
}

// Load returns the best score for key, zero if none was saved
func (fs *FileStore) Load(key string) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.scores[key], nil
}

// Save records score for key if it beats the stored one
func (fs *FileStore) Save(key string, score int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if score <= fs.scores[key] {
		return nil
	}
	fs.scores[key] = score

	jsonData, err := json.MarshalIndent(fs.scores, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	// Write through a temp file so a crash never leaves half a document
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write scores file: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("failed to replace scores file: %w", err)
	}
	return nil
}

// All returns a copy of every stored score
func (fs *FileStore) All() (map[string]int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := make(map[string]int, len(fs.scores))
	for k, v := range fs.scores {
		out[k] = v
	}
	return out, nil
}

// Close is a no-op; every Save is already on disk
func (fs *FileStore) Close() error {
	return nil
}
