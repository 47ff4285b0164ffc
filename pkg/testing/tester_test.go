package testing

import (
	"errors"
	"testing"

	"github.com/go-drift/compose/pkg/core"
	composeerrors "github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/testing/internal/testbed"
)

func text(content string) core.View {
	return core.RenderObjectKeyed("text", testbed.Text{Content: content})
}

func TestPumpView_MountsTree(t *testing.T) {
	tester := NewViewTesterWithT(t)

	if err := tester.PumpView(text("hello")); err != nil {
		t.Fatal(err)
	}
	if tester.RootElement() == nil {
		t.Fatal("expected root element after PumpView")
	}
	ro, ok := tester.RootRenderObject().(*testbed.RenderText)
	if !ok || ro.Content != "hello" {
		t.Fatalf("root render object = %#v", tester.RootRenderObject())
	}
}

func TestPumpView_KeepsIdentity(t *testing.T) {
	tester := NewViewTesterWithT(t)

	tester.PumpView(text("first"))
	first := tester.Root()
	firstRender := tester.RootRenderObject()

	tester.PumpView(text("second"))

	if tester.Root() != first {
		t.Error("same key and type should keep the root element")
	}
	if tester.RootRenderObject() != firstRender {
		t.Error("render object should be updated in place")
	}
	if got := tester.RootRenderObject().(*testbed.RenderText).Content; got != "second" {
		t.Errorf("content = %q, want second", got)
	}
}

func TestRemountView(t *testing.T) {
	tester := NewViewTesterWithT(t)

	tester.PumpView(text("first"))
	first := tester.Root()

	tester.RemountView(text("first"))

	if tester.Root() == first {
		t.Error("expected new root element after remount")
	}
	if tester.Context().Len() != 1 {
		t.Errorf("elements = %d, want 1", tester.Context().Len())
	}
}

func TestPumpDrainsLayout(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.PumpView(core.RenderObject(testbed.Box{Name: "root", Kids: []core.View{text("a")}}))

	if len(tester.LaidOut()) != 2 {
		t.Errorf("laid out %d nodes, want 2", len(tester.LaidOut()))
	}

	tester.Pump()

	if len(tester.LaidOut()) != 0 {
		t.Errorf("idle frame laid out %d nodes", len(tester.LaidOut()))
	}
}

func TestPumpRebuildsDirtyState(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.PumpView(core.Stateful(testbed.Counter{Initial: 4, Label: "n"}))

	state := tester.RootElement().(*core.StatefulElement).State().(*testbed.CounterState)
	state.Increment()

	if !tester.Find(ByText("n4")).Exists() {
		t.Fatal("rebuild must wait for Pump")
	}

	tester.Pump()

	if !tester.Find(ByText("n5")).Exists() {
		t.Error("expected n5 after Pump")
	}
}

func TestPumpAndSettle_Idle(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.PumpView(text("static"))

	if err := tester.PumpAndSettle(0); err != nil {
		t.Errorf("expected settle for static view, got: %v", err)
	}
}

func TestPumpAndSettle_Timeout(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.PumpView(text("busy"))

	var again func()
	again = func() { tester.Dispatch(again) }
	tester.Dispatch(again)

	err := tester.PumpAndSettle(5)
	if !errors.Is(err, ErrSettleTimeout) {
		t.Errorf("err = %v, want ErrSettleTimeout", err)
	}
}

func TestDispatch(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.PumpView(text("test"))

	called := false
	tester.Dispatch(func() { called = true })

	if called {
		t.Error("dispatch should not run until Pump")
	}

	tester.Pump()

	if !called {
		t.Error("dispatch should have run after Pump")
	}
}

type selfDirtying struct{}

func (selfDirtying) Build(ctx core.BuildContext) core.View {
	ctx.MarkNeedsBuild()
	return core.Empty
}

func TestPumpView_ReturnsFatalError(t *testing.T) {
	tester := NewViewTesterWithT(t)

	err := tester.PumpView(core.Stateless(selfDirtying{}))

	var fe *composeerrors.FrameworkError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FrameworkError", err)
	}
	if fe.Kind != composeerrors.KindReentrantBuild {
		t.Errorf("kind = %v, want reentrant build", fe.Kind)
	}
}

func TestPump_ReturnsFatalErrorFromDispatch(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.PumpView(text("a"))

	tester.Dispatch(func() {
		composeerrors.Fatal("test.dispatch", composeerrors.KindLifecycle, "boom")
	})
	err := tester.PumpAndSettle(0)

	var fe *composeerrors.FrameworkError
	if !errors.As(err, &fe) || fe.Op != "test.dispatch" {
		t.Fatalf("err = %v, want the dispatch failure", err)
	}
	if err := tester.Pump(); err != nil {
		t.Errorf("next frame should be clean, got %v", err)
	}
}

func TestPump_PropagatesOtherPanics(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.Dispatch(func() { panic("user") })

	defer func() {
		if r := recover(); r != "user" {
			t.Errorf("recovered %v, want user panic", r)
		}
	}()
	tester.Pump()
}

func TestStats(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.PumpView(text("a"))
	tester.PumpView(text("a"))
	tester.PumpView(text("b"))
	tester.PumpView(core.Empty)

	stats := tester.Stats()
	for decision, want := range map[core.Decision]int64{
		core.DecisionInflate: 1,
		core.DecisionSkip:    1,
		core.DecisionUpdate:  1,
		core.DecisionRemove:  1,
	} {
		if got := stats.Count(decision); got != want {
			t.Errorf("%s = %d, want %d", decision, got, want)
		}
	}
	if tester.RootElement() != nil {
		t.Error("Empty root should leave no element")
	}
}
