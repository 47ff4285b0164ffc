package core

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/layout"
)

// testRender is the render object created by label and box.
type testRender struct {
	Name     string
	parent   layout.RenderObject
	children []layout.RenderObject
	disposed bool
}

func (r *testRender) SetParent(parent layout.RenderObject)       { r.parent = parent }
func (r *testRender) SetChildren(children []layout.RenderObject) { r.children = children }
func (r *testRender) Dispose()                                   { r.disposed = true }

func (r *testRender) childNames() []string {
	names := make([]string, 0, len(r.children))
	for _, child := range r.children {
		names = append(names, child.(*testRender).Name)
	}
	return names
}

// label is a leaf render configuration.
type label struct {
	Text string
}

func (l label) CreateRenderObject(ctx BuildContext) layout.RenderObject {
	return &testRender{Name: l.Text}
}

func (l label) UpdateRenderObject(ctx BuildContext, ro layout.RenderObject) {
	ro.(*testRender).Name = l.Text
}

// box is a render configuration with declared children.
type box struct {
	Name string
	Kids []View
}

func (b box) CreateRenderObject(ctx BuildContext) layout.RenderObject {
	return &testRender{Name: b.Name}
}

func (b box) Children() []View { return b.Kids }

// wrap is a stateless configuration building its Inner view.
type wrap struct {
	Inner View
}

func (w wrap) Build(ctx BuildContext) View { return w.Inner }

// counter is a stateful configuration whose state counts its lifecycle.
type counter struct {
	Label string
}

func (c counter) CreateState() State { return &counterState{} }

type counterState struct {
	StateBase
	inits    int
	builds   int
	updates  []string
	disposed bool
}

func (s *counterState) InitState() { s.inits++ }

func (s *counterState) DidUpdateConfiguration(old StatefulConfiguration) {
	s.updates = append(s.updates, old.(counter).Label)
}

func (s *counterState) Build(ctx BuildContext) View {
	s.builds++
	cfg := s.Element().Configuration().Value().(counter)
	return RenderObject(label{Text: fmt.Sprintf("%s:%d", cfg.Label, s.builds)})
}

func (s *counterState) Dispose() {
	s.disposed = true
	s.StateBase.Dispose()
}

func stateOf[S State](t *testing.T, ctx *FrameworkContext, id ElementID) S {
	t.Helper()
	element, ok := ctx.Element(id)
	if !ok {
		t.Fatalf("element %s is not live", id)
	}
	stateful, ok := element.(*StatefulElement)
	if !ok {
		t.Fatalf("element %s is %T, want *StatefulElement", id, element)
	}
	state, ok := stateful.State().(S)
	if !ok {
		t.Fatalf("state of %s is %T", id, stateful.State())
	}
	return state
}

func renderOf(t *testing.T, ctx *FrameworkContext, id ElementID) *testRender {
	t.Helper()
	object, ok := ctx.RenderObjectOf(id)
	if !ok {
		t.Fatalf("element %s has no render object", id)
	}
	return object.(*testRender)
}

// recordingHandler captures reported errors without logging them.
type recordingHandler struct {
	errors      []*errors.FrameworkError
	buildErrors []*errors.BuildError
}

func (h *recordingHandler) HandleError(err *errors.FrameworkError) { h.errors = append(h.errors, err) }
func (h *recordingHandler) HandlePanic(*errors.PanicError)         {}
func (h *recordingHandler) HandleBuildError(err *errors.BuildError) {
	h.buildErrors = append(h.buildErrors, err)
}

func captureErrors(t *testing.T) *recordingHandler {
	t.Helper()
	handler := &recordingHandler{}
	errors.SetHandler(handler)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return handler
}

// expectFatal runs fn and returns the framework error it aborted with.
func expectFatal(t *testing.T, target error, fn func()) *errors.FrameworkError {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	fe, ok := errors.AsFramework(recovered)
	if !ok {
		t.Fatalf("expected a fatal %v, got %v", target, recovered)
	}
	if !stderrors.Is(fe, target) {
		t.Fatalf("expected %v, got %v", target, fe)
	}
	return fe
}
