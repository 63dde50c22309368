package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
)

// Runner errors.
var (
	ErrUnknownTribe    = errors.New("engine: unknown tribe")
	ErrTribeEliminated = errors.New("engine: tribe eliminated")
)

// TurnHook is called after each processed turn with the new state. Hooks
// run while the runner is locked and must not retain or modify the state.
type TurnHook func(ctx context.Context, s *GameState)

// Runner owns the live game for an in-process server. All access to the
// state goes through its mutex.
type Runner struct {
	mu    sync.Mutex
	proc  *Processor
	state *GameState
	hooks []TurnHook
}

// NewRunner wraps a processor and an initial state.
func NewRunner(p *Processor, s *GameState) *Runner {
	if p == nil {
		p = &Processor{}
	}
	p.defaults()
	return &Runner{proc: p, state: s}
}

// OnTurn registers a hook fired after every Advance.
func (r *Runner) OnTurn(h TurnHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Submit replaces a tribe's queued orders and marks its turn submitted.
// Actions without an id get one.
func (r *Runner) Submit(tribeID string, actions []social.GameAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tr := r.state.Tribe(tribeID)
	if tr == nil {
		return fmt.Errorf("submit %q: %w", tribeID, ErrUnknownTribe)
	}
	if tr.Eliminated {
		return fmt.Errorf("submit %q: %w", tribeID, ErrTribeEliminated)
	}
	queued := make([]social.GameAction, len(actions))
	for i, a := range actions {
		if a.ID == "" {
			a.ID = r.proc.NewID()
		}
		queued[i] = a
	}
	tr.Actions = queued
	tr.TurnSubmitted = true
	return nil
}

// Advance processes one turn and fires the hooks. On error the live state
// is unchanged.
func (r *Runner) Advance(ctx context.Context) (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.proc.ProcessTurn(ctx, r.state)
	if err != nil {
		return Stats{}, err
	}
	r.state = next
	for _, h := range r.hooks {
		h(ctx, next)
	}
	return next.Summarize(), nil
}

// Snapshot returns a deep copy of the live state.
func (r *Runner) Snapshot() (*GameState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// View runs fn against the live state under the lock. fn must not keep
// references past its return.
func (r *Runner) View(fn func(s *GameState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.state)
}

// Stats summarizes the live state.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Summarize()
}
