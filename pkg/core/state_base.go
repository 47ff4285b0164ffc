package core

import "sync"

// stateBase lets hooks accept any state that embeds StateBase.
type stateBase interface {
	state() *StateBase
}

func (s *StateBase) state() *StateBase { return s }

// StateBase is meant to be embedded in State implementations. It binds the
// state to its StatefulElement and runs the cleanups registered through
// OnDispose and the hooks when the element is unmounted.
//
//	type counterState struct {
//	    core.StateBase
//	    count int
//	}
//
//	func (s *counterState) Build(ctx core.BuildContext) core.View {
//	    return core.RenderObject(label{Text: strconv.Itoa(s.count)})
//	}
type StateBase struct {
	element *StatefulElement

	mu       sync.Mutex
	cleanups []cleanup
	nextID   int
	disposed bool
}

type cleanup struct {
	id int
	fn func()
}

func (s *StateBase) setElement(element *StatefulElement) {
	s.element = element
}

// Element returns the owning element; nil until the state is mounted.
func (s *StateBase) Element() *StatefulElement {
	return s.element
}

// SetState applies fn and marks the owning element dirty. After disposal
// it does nothing, fn included. On a state that was never mounted, fn runs
// and nothing is scheduled. The owning element rejects the call while it is
// building. Only the goroutine driving the FrameworkContext may call it.
func (s *StateBase) SetState(fn func()) {
	if s.IsDisposed() {
		return
	}
	if s.element == nil {
		if fn != nil {
			fn()
		}
		return
	}
	s.element.SetState(fn)
}

// OnDispose registers fn to run when the state is disposed, and returns a
// function that unregisters it. Cleanups run once, newest first. On a
// state that is already disposed fn runs right away.
func (s *StateBase) OnDispose(fn func()) (unregister func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		fn()
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.cleanups = append(s.cleanups, cleanup{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, c := range s.cleanups {
			if c.id == id {
				s.cleanups = append(s.cleanups[:i], s.cleanups[i+1:]...)
				return
			}
		}
	}
}

// RunDisposers marks the state disposed and runs the registered cleanups in
// reverse registration order. Later calls do nothing.
func (s *StateBase) RunDisposers() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	pending := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		pending[i].fn()
	}
}

// Dispose runs the cleanups. A state that overrides Dispose must still
// call s.StateBase.Dispose().
func (s *StateBase) Dispose() {
	s.RunDisposers()
}

// IsDisposed reports whether the state has been disposed.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

func (s *StateBase) InitState() {}

// Build returns Empty.
func (s *StateBase) Build(ctx BuildContext) View {
	return Empty
}

func (s *StateBase) DidUpdateConfiguration(old StatefulConfiguration) {}
