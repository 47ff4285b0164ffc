package core

// BuildFunc adapts a function to [StatelessConfiguration]. Function values
// never compare equal, so a BuildFunc view is rebuilt on every parent
// rebuild.
type BuildFunc func(ctx BuildContext) View

// Build calls f.
func (f BuildFunc) Build(ctx BuildContext) View {
	return f(ctx)
}

// StatelessFunc creates an inline stateless view keyed by the caller's
// position.
//
//	core.StatelessFunc(func(ctx core.BuildContext) core.View {
//	    return core.RenderObject(label{Text: "hello"})
//	})
func StatelessFunc(build func(ctx BuildContext) View) View {
	if build == nil {
		return Empty
	}
	return StatelessAt(CallerKeyPath(1), BuildFunc(build))
}

// StatefulFunc creates an inline stateful view using closures.
// Use this for quick, self-contained fragments that don't need
// lifecycle hooks or StateBase features.
//
//	view := core.StatefulFunc(
//	    func() int { return 0 },
//	    func(count int, ctx core.BuildContext, setState func(func(int) int)) core.View {
//	        return core.RenderObject(label{Text: strconv.Itoa(count)})
//	    },
//	)
//
// The generic parameter is the state type. setState takes a function that
// transforms the current state to a new state. The view is keyed by the
// caller's position; the state survives rebuilds from the same call site.
func StatefulFunc[S any](
	init func() S,
	build func(state S, ctx BuildContext, setState func(func(S) S)) View,
) View {
	return StatefulAt(CallerKeyPath(1), &inlineStateful[S]{
		initFn:  init,
		buildFn: build,
	})
}

type inlineStateful[S any] struct {
	initFn  func() S
	buildFn func(state S, ctx BuildContext, setState func(func(S) S)) View
}

func (w *inlineStateful[S]) CreateState() State {
	return &inlineStatefulState[S]{config: w}
}

type inlineStatefulState[S any] struct {
	StateBase
	value  S
	config *inlineStateful[S]
}

func (s *inlineStatefulState[S]) InitState() {
	if s.config.initFn != nil {
		s.value = s.config.initFn()
	}
}

func (s *inlineStatefulState[S]) DidUpdateConfiguration(_ StatefulConfiguration) {
	s.config = s.Element().Configuration().Value().(*inlineStateful[S])
}

func (s *inlineStatefulState[S]) Build(ctx BuildContext) View {
	return s.config.buildFn(s.value, ctx, func(update func(S) S) {
		s.SetState(func() {
			s.value = update(s.value)
		})
	})
}
