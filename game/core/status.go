package core

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of an engine run
type Status int

const (
	Idle Status = iota
	Running
	Won
	Lost
)

var statusNames = map[Status]string{
	Idle:    "idle",
	Running: "running",
	Won:     "won",
	Lost:    "lost",
}

// String returns the lowercase name of the status
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether the status is Won or Lost.
// Engines with a non-terminal win (merge) check Lost on their own.
func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

// ParseStatus converts a status name back to a Status
func ParseStatus(name string) (Status, error) {
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return Idle, fmt.Errorf("unknown status %q", name)
}

// MarshalJSON encodes the status by name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Kind identifies one of the arcade engines
type Kind string

const (
	KindMerge     Kind = "merge"
	KindStacking  Kind = "stacking"
	KindSnake     Kind = "snake"
	KindScroller  Kind = "scroller"
	KindPairs     Kind = "pairs"
	KindTicTacToe Kind = "tictactoe"
)

// Kinds lists every engine kind in display order
func Kinds() []Kind {
	return []Kind{KindMerge, KindStacking, KindSnake, KindScroller, KindPairs, KindTicTacToe}
}

// Valid reports whether k names a known engine
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}
