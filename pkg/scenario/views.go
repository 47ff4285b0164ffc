package scenario

import (
	"strconv"

	"github.com/go-drift/compose/pkg/core"
	"github.com/go-drift/compose/pkg/layout"
)

// View converts the node into a view. Nodes with a key get an explicit key
// path; the others are identified by type and position, like views built
// in a loop.
func (n *Node) View() core.View {
	if n == nil {
		return core.Empty
	}
	switch n.Type {
	case TypeBox:
		box := Box{Name: n.Text, Width: n.Width, Height: n.Height, Kids: views(n.Children)}
		if n.Key != "" {
			return core.RenderObjectKeyed(n.Key, box)
		}
		return core.RenderObject(box)
	case TypeLabel:
		if n.Key != "" {
			return core.RenderObjectKeyed(n.Key, Label{Text: n.Text})
		}
		return core.RenderObject(Label{Text: n.Text})
	case TypeGroup:
		group := Group{Name: n.Text, Nodes: n.Children}
		if n.Key != "" {
			return core.StatelessKeyed(n.Key, group)
		}
		return core.Stateless(group)
	case TypeCounter:
		if n.Key != "" {
			return core.StatefulKeyed(n.Key, Counter{Label: n.Text})
		}
		return core.Stateful(Counter{Label: n.Text})
	default:
		return core.Empty
	}
}

func views(nodes []Node) []core.View {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]core.View, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].View()
	}
	return out
}

// Box is a render view with declared children.
type Box struct {
	Name   string
	Width  float64
	Height float64
	Kids   []core.View
}

func (b Box) CreateRenderObject(core.BuildContext) layout.RenderObject {
	return &RenderBox{Name: b.Name, Width: b.Width, Height: b.Height}
}

func (b Box) UpdateRenderObject(_ core.BuildContext, object layout.RenderObject) {
	box := object.(*RenderBox)
	box.Name, box.Width, box.Height = b.Name, b.Width, b.Height
}

func (b Box) Children() []core.View { return b.Kids }

// Label is a leaf render view.
type Label struct {
	Text string
}

func (l Label) CreateRenderObject(core.BuildContext) layout.RenderObject {
	return &RenderLabel{Text: l.Text}
}

func (l Label) UpdateRenderObject(_ core.BuildContext, object layout.RenderObject) {
	object.(*RenderLabel).Text = l.Text
}

// Group is a stateless view that wraps its nodes in an anonymous box.
type Group struct {
	Name  string
	Nodes []Node
}

func (g Group) Build(core.BuildContext) core.View {
	return core.RenderObject(Box{Name: g.Name, Kids: views(g.Nodes)})
}

// Counter is a stateful view that shows how often it was built.
type Counter struct {
	Label string
}

func (Counter) CreateState() core.State { return &CounterState{} }

// CounterState counts the builds of its element.
type CounterState struct {
	core.StateBase
	Builds int
}

func (s *CounterState) Build(core.BuildContext) core.View {
	s.Builds++
	label := s.Element().Configuration().Value().(Counter).Label
	return core.RenderObject(Label{Text: label + strconv.Itoa(s.Builds)})
}

// RenderBox is the render object of a Box.
type RenderBox struct {
	Name     string
	Width    float64
	Height   float64
	parent   layout.RenderObject
	children []layout.RenderObject
}

func (r *RenderBox) SetParent(parent layout.RenderObject)       { r.parent = parent }
func (r *RenderBox) SetChildren(children []layout.RenderObject) { r.children = children }

// Parent returns the render parent, or nil for a render root.
func (r *RenderBox) Parent() layout.RenderObject { return r.parent }

// Children returns the render children in element order.
func (r *RenderBox) Children() []layout.RenderObject { return r.children }

// RenderLabel is the render object of a Label.
type RenderLabel struct {
	Text     string
	parent   layout.RenderObject
	Disposed bool
}

func (r *RenderLabel) SetParent(parent layout.RenderObject) { r.parent = parent }
func (r *RenderLabel) Dispose()                             { r.Disposed = true }

// Parent returns the render parent, or nil for a render root.
func (r *RenderLabel) Parent() layout.RenderObject { return r.parent }
