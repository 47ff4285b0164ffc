package core

// BuildContext is the handle passed to user build code. It is the element
// being built.
type BuildContext interface {
	// ElementID returns the id of the element being built.
	ElementID() ElementID
	// Framework returns the owning context.
	Framework() *FrameworkContext
	// View returns the element's current configuration.
	View() View
	// Depth returns the element's distance from its root.
	Depth() int
	// MarkNeedsBuild schedules a rebuild of the element.
	MarkNeedsBuild()
	// SetState runs fn and schedules a rebuild. Calling it while this
	// element is building is fatal.
	SetState(fn func())
	// FindAncestor returns the nearest ancestor matching predicate, or nil.
	FindAncestor(predicate func(Element) bool) Element
}

// State is the retained, mutable companion of a stateful element. It is
// created once by [StatefulConfiguration.CreateState] and lives until the
// element is deactivated. Embed [StateBase] for default implementations.
type State interface {
	// InitState runs once, after the element is mounted and before the
	// first build.
	InitState()
	// Build returns the child view.
	Build(ctx BuildContext) View
	// DidUpdateConfiguration runs after the element received a new
	// configuration of the same type and key path.
	DidUpdateConfiguration(old StatefulConfiguration)
	// Dispose runs once when the element is deactivated.
	Dispose()
}

// FindAncestorOfType returns the nearest ancestor element whose view
// payload has type T.
func FindAncestorOfType[T any](ctx BuildContext) (T, bool) {
	var zero T
	found := ctx.FindAncestor(func(element Element) bool {
		_, ok := element.View().Payload().(T)
		return ok
	})
	if found == nil {
		return zero, false
	}
	return found.View().Payload().(T), true
}
