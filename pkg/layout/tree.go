package layout

import (
	"fmt"

	"github.com/go-drift/compose/pkg/arena"
)

// RenderID identifies a node in a [RenderTree]. The zero value means
// "no render node".
type RenderID = arena.NodeID

// RenderTree is the render-object arena. It is indexed independently of
// the element arena: a render node's parent is the render node of the
// nearest render element ancestor, not the element parent.
type RenderTree struct {
	nodes    *arena.Arena[RenderObject]
	pipeline *PipelineOwner
}

// NewRenderTree creates an empty render tree.
func NewRenderTree() *RenderTree {
	t := &RenderTree{nodes: arena.New[RenderObject]()}
	t.pipeline = &PipelineOwner{tree: t}
	return t
}

// Pipeline returns the owner tracking nodes that need layout.
func (t *RenderTree) Pipeline() *PipelineOwner {
	return t.pipeline
}

// Len returns the number of attached render objects.
func (t *RenderTree) Len() int {
	return t.nodes.Len()
}

// Contains reports whether id is attached.
func (t *RenderTree) Contains(id RenderID) bool {
	return t.nodes.Contains(id)
}

// Object returns the render object stored at id.
func (t *RenderTree) Object(id RenderID) (RenderObject, bool) {
	return t.nodes.Get(id)
}

// Parent returns the render parent of id, if any.
func (t *RenderTree) Parent(id RenderID) (RenderID, bool) {
	return t.nodes.Parent(id)
}

// Children returns the ordered render children of id.
func (t *RenderTree) Children(id RenderID) []RenderID {
	return t.nodes.Children(id)
}

// Roots returns the render nodes without a parent.
func (t *RenderTree) Roots() []RenderID {
	return t.nodes.Roots()
}

// Depth returns the number of render ancestors of id.
func (t *RenderTree) Depth(id RenderID) int {
	return t.nodes.Depth(id)
}

// Visit calls fn for id and its render descendants in depth-first
// pre-order until fn returns false.
func (t *RenderTree) Visit(id RenderID, fn func(RenderID, RenderObject) bool) {
	for node := range t.nodes.Descendants(id) {
		object, _ := t.nodes.Get(node)
		if !fn(node, object) {
			return
		}
	}
}

// Insert attaches object as the last child of parent, or as a new root
// when parent is the zero RenderID.
func (t *RenderTree) Insert(parent RenderID, object RenderObject) (RenderID, error) {
	if parent.IsValid() && !t.nodes.Contains(parent) {
		return RenderID{}, fmt.Errorf("insert under %s: %w", parent, arena.ErrStaleNode)
	}
	id := t.nodes.NewNode(object)
	if parent.IsValid() {
		if err := t.nodes.Append(parent, id); err != nil {
			_ = t.nodes.Remove(id, nil)
			return RenderID{}, fmt.Errorf("insert: %w", err)
		}
		if setter, ok := object.(ParentSetter); ok {
			parentObject, _ := t.nodes.Get(parent)
			setter.SetParent(parentObject)
		}
		t.syncChildren(parent)
		t.pipeline.MarkNeedsLayout(parent)
	}
	t.pipeline.MarkNeedsLayout(id)
	return id, nil
}

// Remove detaches id and releases it together with any render nodes still
// attached below it. Objects are detached and disposed children first.
func (t *RenderTree) Remove(id RenderID) error {
	parent, hasParent := t.nodes.Parent(id)
	err := t.nodes.Remove(id, func(_ RenderID, object RenderObject) {
		if setter, ok := object.(ParentSetter); ok {
			setter.SetParent(nil)
		}
		if disposer, ok := object.(Disposer); ok {
			disposer.Dispose()
		}
	})
	if err != nil {
		return fmt.Errorf("remove render node: %w", err)
	}
	if hasParent {
		t.syncChildren(parent)
		t.pipeline.MarkNeedsLayout(parent)
	}
	return nil
}

// Reorder sets the order of parent's render children. order must be a
// permutation of the current children.
func (t *RenderTree) Reorder(parent RenderID, order []RenderID) error {
	current := t.nodes.Children(parent)
	if equalIDs(current, order) {
		return nil
	}
	if err := t.nodes.SetChildren(parent, order); err != nil {
		return fmt.Errorf("reorder render children: %w", err)
	}
	t.syncChildren(parent)
	t.pipeline.MarkNeedsLayout(parent)
	return nil
}

// syncChildren pushes the current child list into a ChildrenSetter parent.
func (t *RenderTree) syncChildren(parent RenderID) {
	object, ok := t.nodes.Get(parent)
	if !ok {
		return
	}
	setter, ok := object.(ChildrenSetter)
	if !ok {
		return
	}
	ids := t.nodes.Children(parent)
	children := make([]RenderObject, 0, len(ids))
	for _, id := range ids {
		child, _ := t.nodes.Get(id)
		children = append(children, child)
	}
	setter.SetChildren(children)
}

func equalIDs(a, b []RenderID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
