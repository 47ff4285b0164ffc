package core

import "sync/atomic"

// Decision is the outcome of reconciling one child slot.
type Decision uint8

const (
	// DecisionInflate mounts a new element in an empty slot.
	DecisionInflate Decision = iota
	// DecisionSkip keeps a structurally equal element untouched.
	DecisionSkip
	// DecisionUpdate updates an element in place and rebuilds it.
	DecisionUpdate
	// DecisionReplace deactivates the old element and inflates a new one.
	DecisionReplace
	// DecisionRemove deactivates an element whose slot became empty.
	DecisionRemove
)

// Decisions lists every Decision value.
var Decisions = []Decision{DecisionInflate, DecisionSkip, DecisionUpdate, DecisionReplace, DecisionRemove}

func (d Decision) String() string {
	switch d {
	case DecisionInflate:
		return "inflate"
	case DecisionSkip:
		return "skip"
	case DecisionUpdate:
		return "update"
	case DecisionReplace:
		return "replace"
	case DecisionRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// ReconcileObserver receives reconciliation events. Callbacks run
// synchronously inside the build and must not touch the element tree.
type ReconcileObserver interface {
	OnReconcile(decision Decision, kind ViewKind)
	OnRebuild(kind ViewKind)
}

type nopObserver struct{}

func (nopObserver) OnReconcile(Decision, ViewKind) {}
func (nopObserver) OnRebuild(ViewKind)             {}

// Stats counts reconciliation events. The zero value is ready to use.
type Stats struct {
	decisions [5]atomic.Int64
	rebuilds  atomic.Int64
}

func (s *Stats) OnReconcile(decision Decision, _ ViewKind) {
	if int(decision) < len(s.decisions) {
		s.decisions[decision].Add(1)
	}
}

func (s *Stats) OnRebuild(ViewKind) {
	s.rebuilds.Add(1)
}

// Count returns how often decision was taken.
func (s *Stats) Count(decision Decision) int64 {
	if int(decision) >= len(s.decisions) {
		return 0
	}
	return s.decisions[decision].Load()
}

// Rebuilds returns the number of element rebuilds.
func (s *Stats) Rebuilds() int64 {
	return s.rebuilds.Load()
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	for i := range s.decisions {
		s.decisions[i].Store(0)
	}
	s.rebuilds.Store(0)
}

// MultiObserver fans events out to several observers in order.
type MultiObserver []ReconcileObserver

func (m MultiObserver) OnReconcile(decision Decision, kind ViewKind) {
	for _, o := range m {
		o.OnReconcile(decision, kind)
	}
}

func (m MultiObserver) OnRebuild(kind ViewKind) {
	for _, o := range m {
		o.OnRebuild(kind)
	}
}
