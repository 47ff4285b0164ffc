package core_test

import (
	"fmt"
	"strconv"

	"github.com/go-drift/compose/pkg/core"
	"github.com/go-drift/compose/pkg/layout"
)

type text struct {
	Value string
}

func (t text) CreateRenderObject(ctx core.BuildContext) layout.RenderObject {
	return &paragraph{value: t.Value}
}

func (t text) UpdateRenderObject(ctx core.BuildContext, ro layout.RenderObject) {
	ro.(*paragraph).value = t.Value
}

type paragraph struct {
	value string
}

type clicks struct{}

func (clicks) CreateState() core.State { return &clicksState{} }

type clicksState struct {
	core.StateBase
	count int
}

func (s *clicksState) Build(ctx core.BuildContext) core.View {
	return core.RenderObject(text{Value: "clicked " + strconv.Itoa(s.count)})
}

// This example mounts a stateful view, updates its state and flushes the
// scheduled rebuild. The element and its render object survive the rebuild.
func ExampleFrameworkContext_MountRoot() {
	ctx := core.NewFrameworkContext()
	root := ctx.MountRoot(core.Stateful(clicks{}))

	element, _ := ctx.Element(root)
	state := element.(*core.StatefulElement).State().(*clicksState)
	before, _ := ctx.RenderObjectOf(root)

	state.SetState(func() { state.count++ })
	ctx.FlushBuild()

	after, _ := ctx.RenderObjectOf(root)
	fmt.Println(after.(*paragraph).value)
	fmt.Println(before == after)

	// Output:
	// clicked 1
	// true
}

// This example shows that reconciling an equal view is a no-op.
func ExampleStats() {
	stats := &core.Stats{}
	ctx := core.NewFrameworkContext(core.WithObserver(stats))

	root := ctx.MountRoot(core.RenderObjectKeyed("title", text{Value: "hello"}))
	ctx.UpdateRoot(root, core.RenderObjectKeyed("title", text{Value: "hello"}))
	ctx.UpdateRoot(root, core.RenderObjectKeyed("title", text{Value: "world"}))

	for _, decision := range core.Decisions {
		fmt.Printf("%s=%d\n", decision, stats.Count(decision))
	}

	// Output:
	// inflate=1
	// skip=1
	// update=1
	// replace=0
	// remove=0
}
