package core

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the pseudo-random capability engines draw from.
// Intn returns a value in [0, n) and is only called with n > 0.
type Random interface {
	Intn(n int) int
}

// NewRandom returns a seeded source. A zero seed uses the current time.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ScriptedRandom replays a fixed sequence of values, each reduced modulo the
// requested bound. When the script runs out it starts over; an empty script
// always yields 0.
type ScriptedRandom struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewScriptedRandom creates a ScriptedRandom over values
func NewScriptedRandom(values ...int) *ScriptedRandom {
	return &ScriptedRandom{values: values}
}

// Intn returns the next scripted value modulo n
func (r *ScriptedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.values) == 0 || n <= 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls returns how many values have been drawn
func (r *ScriptedRandom) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}
