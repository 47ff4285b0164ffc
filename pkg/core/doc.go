// Package core turns declaratively rebuilt [View] descriptions into a
// persistent tree of elements and projects the render objects those
// elements own into a separate render tree.
//
// # Core Types
//
// A View is an immutable description of one node: a payload plus a
// [KeyPath] identity. Views are cheap and rebuilt on every frame. The
// closed set of variants is [Empty] and the configurations produced by
// [Stateless], [Stateful] and [RenderObject].
//
// An [Element] is the persistent instantiation of a view at one position.
// Elements live in the arena of a [FrameworkContext] and are addressed by
// [ElementID]. A stateful element keeps its [State] for its whole life; a
// render element keeps one node in the context's render tree.
//
// # Reconciliation
//
// Every rebuild reconciles each child slot against the newly built view:
//
//   - Empty removes the existing child subtree.
//   - An empty slot inflates and mounts a new element.
//   - A structurally equal view leaves the element untouched.
//   - A view with the same payload type and key path updates the element
//     in place, keeping its id and state, then rebuilds it.
//   - Anything else removes the old subtree before the new one is mounted.
//
// # Identity
//
// A view's key path is its explicit key when one is given (see
// [StatelessKeyed], [Keyed]) and otherwise the source position of the
// constructor call:
//
//	func (c card) Build(ctx core.BuildContext) core.View {
//	    if c.Compact {
//	        return core.RenderObject(label{Text: c.Title}) // one identity
//	    }
//	    return core.RenderObject(label{Text: c.Title}) // another identity
//	}
//
// Views built in a loop share a call site and need explicit keys.
//
// # State
//
// Embed [StateBase] in your state struct:
//
//	type counterState struct {
//	    core.StateBase
//	    count int
//	}
//
//	func (s *counterState) Build(ctx core.BuildContext) core.View {
//	    return core.RenderObject(label{Text: strconv.Itoa(s.count)})
//	}
//
// SetState marks the element dirty and schedules it on the [BuildOwner];
// the host drains the schedule with [FrameworkContext.FlushBuild]. Calling
// SetState on an element from inside its own build is fatal.
//
// # Errors
//
// Violated engine invariants are reported through package errors and then
// abort with a panic. A panic inside user build code is recovered, reported
// and replaced by the [ErrorViewBuilder] output.
package core
