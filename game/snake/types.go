package snake

import (
	"encoding/json"
	"fmt"
)

// Point is a board cell, origin top-left
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is a unit step on the grid
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		return "unknown"
	}
	return directionNames[d]
}

// Delta returns the row and column step
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

// ParseDirection maps up, down, left and right to a Direction
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return Up, false
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseDirection(name)
	if !ok {
		return fmt.Errorf("unknown direction %q", name)
	}
	*d = parsed
	return nil
}
