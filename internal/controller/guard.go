package controller

import (
	"sync"
	"sync/atomic"
)

type SubmitState int

const (
	SubmitIdle SubmitState = iota
	SubmitInFlight
	SubmitDone
)

func (s SubmitState) String() string {
	switch s {
	case SubmitIdle:
		return "idle"
	case SubmitInFlight:
		return "in-flight"
	case SubmitDone:
		return "done"
	default:
		return "unknown"
	}
}

// submitGuard admits one submission per initialization cycle.
type submitGuard struct {
	mu    sync.Mutex
	state SubmitState
}

func (g *submitGuard) begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != SubmitIdle {
		return false
	}
	g.state = SubmitInFlight
	return true
}

func (g *submitGuard) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = SubmitDone
}

func (g *submitGuard) State() SubmitState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// requestTokens hands out increasing tokens; only a response carrying the
// latest one may touch controller state.
type requestTokens struct {
	last atomic.Uint64
}

func (t *requestTokens) next() uint64 {
	return t.last.Add(1)
}

func (t *requestTokens) isLatest(token uint64) bool {
	return t.last.Load() == token
}
