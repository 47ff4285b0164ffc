// Package layout holds the render-object side of the engine: the opaque
// [RenderObject] contract and the [RenderTree] arena that render elements
// attach their objects to.
//
// Layout and paint algorithms are left to the host. The tree only keeps
// parent/child edges and the set of nodes whose configuration changed,
// which the host drains through [PipelineOwner.FlushLayout].
package layout

// RenderObject is the opaque host-rendering payload created by a render
// configuration. The engine never inspects it; it only calls the optional
// hooks below when the object's position in the render tree changes.
type RenderObject any

// ParentSetter is implemented by render objects that track their parent.
// SetParent(nil) is called when the object is detached.
type ParentSetter interface {
	SetParent(parent RenderObject)
}

// ChildrenSetter is implemented by render objects that keep an ordered
// list of their children. It is called after every structural change
// under the object.
type ChildrenSetter interface {
	SetChildren(children []RenderObject)
}

// Disposer is implemented by render objects holding resources that must
// be released once the object leaves the tree.
type Disposer interface {
	Dispose()
}
