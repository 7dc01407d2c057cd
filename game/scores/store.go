package scores

import (
	"fmt"

	"github.com/wricardo/neurosphere-arcade/game/merge"
)

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is a best-score store that can list its contents
type Store interface {
	merge.BestScoreStore
	All() (map[string]int, error)
	Close() error
}

// Open returns the store for backend at path
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	}
	return nil, fmt.Errorf("unknown scores backend %q", backend)
}
