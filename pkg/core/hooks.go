package core

// Disposable is implemented by resources owned by a state.
type Disposable interface {
	Dispose()
}

// UseController creates a controller and registers it for automatic disposal.
// The controller will be disposed when the state is disposed.
//
// Example:
//
//	func (s *tickerState) InitState() {
//	    s.ticker = core.UseController(s, func() *Ticker {
//	        return NewTicker(time.Second)
//	    })
//	}
func UseController[C Disposable](s stateBase, create func() C) C {
	base := s.state()
	controller := create()
	base.OnDispose(func() {
		controller.Dispose()
	})
	return controller
}

// UseEffect runs effect once and registers the returned cleanup, if any,
// for disposal. Call it from InitState.
func UseEffect(s stateBase, effect func() func()) {
	if cleanup := effect(); cleanup != nil {
		s.state().OnDispose(cleanup)
	}
}

// Managed holds a value and triggers rebuilds when it changes.
// It is tied to a specific StateBase.
//
// Managed is NOT thread-safe. It must only be accessed from the goroutine
// driving the FrameworkContext.
//
// Example:
//
//	type counterState struct {
//	    core.StateBase
//	    count *core.Managed[int]
//	}
//
//	func (s *counterState) InitState() {
//	    s.count = core.NewManaged(s, 0)
//	}
type Managed[T any] struct {
	base  *StateBase
	value T
}

// NewManaged creates a new managed state value.
// Changes to this value will automatically trigger a rebuild.
func NewManaged[T any](s stateBase, initial T) *Managed[T] {
	return &Managed[T]{
		base:  s.state(),
		value: initial,
	}
}

// Value returns the current value.
func (m *Managed[T]) Value() T {
	return m.value
}

// Set updates the value and triggers a rebuild.
func (m *Managed[T]) Set(value T) {
	m.base.SetState(func() {
		m.value = value
	})
}

// Update applies a transformation to the current value and triggers a rebuild.
func (m *Managed[T]) Update(transform func(T) T) {
	m.base.SetState(func() {
		m.value = transform(m.value)
	})
}
