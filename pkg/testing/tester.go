package testing

import (
	"errors"
	"testing"

	"github.com/go-drift/compose/pkg/core"
	composeerrors "github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/layout"
)

// DefaultMaxFrames bounds PumpAndSettle.
const DefaultMaxFrames = 100

// ErrSettleTimeout is returned when PumpAndSettle exceeds its frame budget.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: engine did not settle")

// ViewTester drives a FrameworkContext without a host. It runs the same
// build flush as a host frame and drains the layout schedule into a list
// the test can inspect.
type ViewTester struct {
	ctx        *core.FrameworkContext
	stats      *core.Stats
	root       core.ElementID
	dispatches []func()
	laidOut    []layout.RenderID
}

// NewViewTester creates a tester with a fresh context. opts are applied
// after the tester's own observer, which feeds [ViewTester.Stats].
// Call Cleanup() when done, or use NewViewTesterWithT() instead.
func NewViewTester(opts ...core.Option) *ViewTester {
	stats := &core.Stats{}
	all := append([]core.Option{core.WithObserver(stats)}, opts...)
	return &ViewTester{
		ctx:   core.NewFrameworkContext(all...),
		stats: stats,
	}
}

// NewViewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewViewTesterWithT(t *testing.T, opts ...core.Option) *ViewTester {
	tester := NewViewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree.
func (t *ViewTester) Cleanup() {
	if t.root.IsValid() {
		t.ctx.Unmount(t.root)
		t.root = core.NoElement
	}
}

// Context returns the driven FrameworkContext.
func (t *ViewTester) Context() *core.FrameworkContext {
	return t.ctx
}

// Stats returns the reconciliation counters collected so far.
func (t *ViewTester) Stats() *core.Stats {
	return t.stats
}

// PumpView reconciles the root against view, keeping element identity
// where the usual rules allow, and runs one frame.
func (t *ViewTester) PumpView(view core.View) error {
	if err := guard(func() { t.root = t.ctx.UpdateRoot(t.root, view) }); err != nil {
		return err
	}
	return t.Pump()
}

// RemountView discards the current tree, mounts view from scratch and runs
// one frame.
func (t *ViewTester) RemountView(view core.View) error {
	t.Cleanup()
	if err := guard(func() { t.root = t.ctx.MountRoot(view) }); err != nil {
		return err
	}
	return t.Pump()
}

// Pump runs a single frame: queued dispatches, build flush, layout drain.
// A fatal engine error raised during the frame is returned as a
// *errors.FrameworkError and ends the frame early.
func (t *ViewTester) Pump() error {
	dispatches := t.dispatches
	t.dispatches = nil
	return guard(func() {
		for _, fn := range dispatches {
			fn()
		}

		t.ctx.FlushBuild()

		t.laidOut = t.laidOut[:0]
		t.ctx.RenderTree().Pipeline().FlushLayout(func(id layout.RenderID, _ layout.RenderObject) {
			t.laidOut = append(t.laidOut, id)
		})
	})
}

// guard runs fn and converts a fatal engine panic into an error. Other
// panics propagate.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := composeerrors.AsFramework(r)
			if !ok {
				panic(r)
			}
			err = fe
		}
	}()
	fn()
	return nil
}

// PumpAndSettle runs frames until no work is pending, or returns
// ErrSettleTimeout after maxFrames frames. maxFrames <= 0 means
// DefaultMaxFrames.
func (t *ViewTester) PumpAndSettle(maxFrames int) error {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	for range maxFrames {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
	}
	return ErrSettleTimeout
}

func (t *ViewTester) needsWork() bool {
	return t.ctx.BuildOwner().NeedsWork() ||
		t.ctx.RenderTree().Pipeline().NeedsLayout() ||
		len(t.dispatches) > 0
}

// Dispatch queues a callback for the next frame.
func (t *ViewTester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

// LaidOut returns the render nodes whose layout was requested during the
// last frame, parents first.
func (t *ViewTester) LaidOut() []layout.RenderID {
	return append([]layout.RenderID(nil), t.laidOut...)
}

// Root returns the id of the root element.
func (t *ViewTester) Root() core.ElementID {
	return t.root
}

// RootElement returns the root element of the mounted tree, or nil.
func (t *ViewTester) RootElement() core.Element {
	element, ok := t.ctx.Element(t.root)
	if !ok {
		return nil
	}
	return element
}

// RootRenderObject returns the render object the root contributes.
func (t *ViewTester) RootRenderObject() layout.RenderObject {
	object, _ := t.ctx.RenderObjectOf(t.root)
	return object
}

// Find evaluates a finder against the current element tree.
func (t *ViewTester) Find(finder Finder) FinderResult {
	root := t.RootElement()
	if root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		elements: finder.Evaluate(root),
		finder:   finder,
	}
}

// extractRenderObject returns the render object an element contributes.
func extractRenderObject(e core.Element) layout.RenderObject {
	if e == nil {
		return nil
	}
	object, _ := e.Framework().RenderObjectOf(e.ElementID())
	return object
}
