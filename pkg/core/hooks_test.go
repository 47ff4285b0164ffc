package core

import (
	"slices"
	"strconv"
	"testing"
)

type testController struct {
	name     string
	log      *[]string
	disposed bool
}

func (c *testController) Dispose() {
	c.disposed = true
	*c.log = append(*c.log, "dispose "+c.name)
}

type hooked struct{}

func (hooked) CreateState() State { return &hookedState{} }

type hookedState struct {
	StateBase
	log        []string
	first      *testController
	second     *testController
	count      *Managed[int]
	unregister func()
}

func (s *hookedState) InitState() {
	s.first = UseController(s, func() *testController { return &testController{name: "first", log: &s.log} })
	s.second = UseController(s, func() *testController { return &testController{name: "second", log: &s.log} })
	UseEffect(s, func() func() {
		s.log = append(s.log, "effect")
		return func() { s.log = append(s.log, "cleanup") }
	})
	s.unregister = s.OnDispose(func() { s.log = append(s.log, "unregistered") })
	s.count = NewManaged(s, 0)
}

func (s *hookedState) Build(ctx BuildContext) View {
	return RenderObject(label{Text: strconv.Itoa(s.count.Value())})
}

func TestHooksDisposeInReverseOrder(t *testing.T) {
	ctx := NewFrameworkContext()
	root := ctx.MountRoot(Stateful(hooked{}))
	state := stateOf[*hookedState](t, ctx, root)
	state.unregister()

	ctx.Unmount(root)

	want := []string{"effect", "cleanup", "dispose second", "dispose first"}
	if !slices.Equal(state.log, want) {
		t.Errorf("log = %v, want %v", state.log, want)
	}
	if !state.first.disposed || !state.second.disposed {
		t.Error("controllers should be disposed")
	}
	if !state.IsDisposed() {
		t.Error("state should report disposed")
	}
}

func TestOnDisposeAfterDisposeRunsImmediately(t *testing.T) {
	var s StateBase
	s.Dispose()
	ran := false
	s.OnDispose(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after dispose should run immediately")
	}
}

func TestManagedTriggersRebuild(t *testing.T) {
	ctx := NewFrameworkContext()
	root := ctx.MountRoot(Stateful(hooked{}))
	state := stateOf[*hookedState](t, ctx, root)

	state.count.Set(4)
	state.count.Update(func(v int) int { return v + 1 })
	ctx.FlushBuild()

	if got := renderOf(t, ctx, root).Name; got != "5" {
		t.Errorf("render object name = %q, want 5", got)
	}
}

func TestStatefulFunc(t *testing.T) {
	ctx := NewFrameworkContext()
	var bump func()
	view := func() View {
		return StatefulFunc(
			func() int { return 10 },
			func(count int, ctx BuildContext, setState func(func(int) int)) View {
				bump = func() { setState(func(c int) int { return c + 1 }) }
				return RenderObject(label{Text: strconv.Itoa(count)})
			},
		)
	}
	root := ctx.MountRoot(view())
	bump()
	ctx.FlushBuild()

	next := ctx.UpdateRoot(root, view())

	if next != root {
		t.Fatal("inline stateful view from the same call site should keep its element")
	}
	if got := renderOf(t, ctx, root).Name; got != "11" {
		t.Errorf("render object name = %q, want 11", got)
	}
}

func TestStatelessFuncRebuildsEveryTime(t *testing.T) {
	ctx := NewFrameworkContext()
	builds := 0
	view := func() View {
		return StatelessFunc(func(ctx BuildContext) View {
			builds++
			return Empty
		})
	}
	root := ctx.MountRoot(view())
	ctx.UpdateRoot(root, view())
	if builds != 2 {
		t.Errorf("builds = %d, want 2", builds)
	}
}

func TestOnDisposeUnregisterRemovesOnlyThatCleanup(t *testing.T) {
	var s StateBase
	var log []string
	s.OnDispose(func() { log = append(log, "a") })
	unregister := s.OnDispose(func() { log = append(log, "b") })
	s.OnDispose(func() { log = append(log, "c") })

	unregister()
	unregister()
	s.Dispose()
	s.Dispose()

	if want := []string{"c", "a"}; !slices.Equal(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}
