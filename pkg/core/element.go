package core

import (
	"fmt"
	"time"

	"github.com/go-drift/compose/pkg/arena"
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/layout"
)

// ElementID is the stable identity of an element in its FrameworkContext.
// It is assigned once, when the element is inserted into the arena.
type ElementID = arena.NodeID

// NoElement is the zero ElementID. Mounting under NoElement makes a root.
var NoElement ElementID

// Lifecycle is the mount state of an element.
type Lifecycle uint8

const (
	// Unmounted elements are in the arena but not yet linked or built.
	Unmounted Lifecycle = iota
	// Mounted elements are linked under their parent and built.
	Mounted
	// Removed elements have been deactivated and must not be used again.
	Removed
)

func (l Lifecycle) String() string {
	switch l {
	case Mounted:
		return "mounted"
	case Removed:
		return "removed"
	default:
		return "unmounted"
	}
}

type buildPhase uint8

const (
	phaseIdle buildPhase = iota
	phaseBuilding
)

// Element is the persistent instantiation of a View at one position in the
// tree. Elements are created by [FrameworkContext.IntoElement] and owned by
// the context's arena.
type Element interface {
	BuildContext

	// Kind returns the variant of the view this element hosts.
	Kind() ViewKind
	// Lifecycle returns the mount state.
	Lifecycle() Lifecycle
	// Mount links the element under parent (NoElement for a root) and
	// performs the first build.
	Mount(ctx *FrameworkContext, parent ElementID)
	// Update replaces the retained configuration. A view of a different
	// variant is a fatal type mismatch. Update does not rebuild.
	Update(view View)
	// RebuildIfNeeded rebuilds the element if it is mounted and dirty.
	RebuildIfNeeded()
	// VisitChildren calls visitor for each direct child until it returns false.
	VisitChildren(visitor func(ElementID) bool)

	base() *elementBase
	performRebuild()
	deactivate()
}

type elementBase struct {
	id        ElementID
	ctx       *FrameworkContext
	self      Element
	lifecycle Lifecycle
	phase     buildPhase
	dirty     bool
	depth     int
}

func (e *elementBase) base() *elementBase {
	return e
}

// initialize binds the element to its arena slot. It runs exactly once.
func (e *elementBase) initialize(id ElementID, ctx *FrameworkContext, self Element) {
	if e.id.IsValid() {
		errors.Fatal("core.Element.initialize", errors.KindLifecycle,
			"element %s initialized twice", e.id)
	}
	e.id = id
	e.ctx = ctx
	e.self = self
}

// ElementID returns the element's arena id. Reading it before the element
// was inserted into an arena is fatal.
func (e *elementBase) ElementID() ElementID {
	if !e.id.IsValid() {
		errors.Fatal("core.Element.ElementID", errors.KindUninitialized,
			"element id read before the element was inserted into a context")
	}
	return e.id
}

// Framework returns the context owning the element.
func (e *elementBase) Framework() *FrameworkContext {
	if e.ctx == nil {
		errors.Fatal("core.Element.Framework", errors.KindUninitialized,
			"element has no framework context")
	}
	return e.ctx
}

func (e *elementBase) Lifecycle() Lifecycle {
	return e.lifecycle
}

func (e *elementBase) Depth() int {
	return e.depth
}

func (e *elementBase) isMounted() bool {
	return e.lifecycle == Mounted
}

// MarkNeedsBuild marks the element dirty and schedules a rebuild. Calling it
// while the element is building is fatal; on an element that is not
// mounted it is a no-op.
func (e *elementBase) MarkNeedsBuild() {
	if e.phase == phaseBuilding {
		errors.Fatal("core.Element.MarkNeedsBuild", errors.KindReentrantBuild,
			"element %s requested a rebuild while building", e.id)
	}
	if e.lifecycle != Mounted {
		return
	}
	if e.dirty {
		return
	}
	e.dirty = true
	ctx := e.Framework()
	if ctx.syncRebuild {
		e.self.RebuildIfNeeded()
		return
	}
	ctx.owner.ScheduleBuild(e.self)
}

// SetState runs fn and marks the element dirty. It is fatal while the
// element is building, checked before fn runs.
func (e *elementBase) SetState(fn func()) {
	if e.phase == phaseBuilding {
		errors.Fatal("core.Element.SetState", errors.KindReentrantBuild,
			"SetState on element %s during its own build", e.id)
	}
	if fn != nil {
		fn()
	}
	e.MarkNeedsBuild()
}

// FindAncestor returns the nearest ancestor element matching predicate.
func (e *elementBase) FindAncestor(predicate func(Element) bool) Element {
	ctx := e.Framework()
	for id := range ctx.elements.Ancestors(e.ElementID()) {
		ancestor, ok := ctx.elements.Get(id)
		if ok && predicate(ancestor) {
			return ancestor
		}
	}
	return nil
}

// mountBase links the element under parent and flips it to Mounted.
func (e *elementBase) mountBase(ctx *FrameworkContext, parent ElementID) {
	id := e.ElementID()
	switch {
	case ctx != e.ctx:
		errors.Fatal("core.Element.Mount", errors.KindLifecycle,
			"element %s mounted into a foreign context", id)
	case e.lifecycle != Unmounted:
		errors.Fatal("core.Element.Mount", errors.KindLifecycle,
			"mount of element %s in state %s", id, e.lifecycle)
	}
	if parent.IsValid() {
		parentElement := ctx.mustElement("core.Element.Mount", parent)
		if err := ctx.elements.Append(parent, id); err != nil {
			errors.Fatal("core.Element.Mount", errors.KindStaleID, "link %s under %s: %v", id, parent, err)
		}
		e.depth = parentElement.Depth() + 1
	}
	e.lifecycle = Mounted
	ctx.logger.Debug().
		Stringer("element", id).
		Stringer("parent", parent).
		Stringer("kind", e.self.Kind()).
		Msg("mount")
}

func (e *elementBase) beginBuild() {
	if e.phase == phaseBuilding {
		errors.Fatal("core.Element.rebuild", errors.KindReentrantBuild,
			"element %s rebuilt while already building", e.id)
	}
	e.phase = phaseBuilding
	e.dirty = false
	e.ctx.observer.OnRebuild(e.self.Kind())
}

func (e *elementBase) endBuild() {
	e.phase = phaseIdle
}

func (e *elementBase) rebuildIfNeeded() {
	if !e.dirty || e.lifecycle != Mounted {
		return
	}
	e.self.performRebuild()
}

// safeBuild runs a user build with panic recovery. A user panic is
// reported as a BuildError and replaced by the error view; framework
// errors are re-raised.
func (e *elementBase) safeBuild(buildFn func() View) (built View) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if fe, ok := errors.AsFramework(r); ok {
			panic(fe)
		}
		buildErr := &errors.BuildError{
			View:      fmt.Sprintf("%T", e.self.View().Payload()),
			Element:   fmt.Sprintf("%T", e.self),
			Recovered: r,
			Timestamp: time.Now(),
		}
		if DebugMode {
			buildErr.StackTrace = errors.CaptureStack()
		}
		errors.ReportBuildError(buildErr)
		built = Empty
		if builder := GetErrorViewBuilder(); builder != nil {
			built = normalize(builder(buildErr))
		}
	}()
	return normalize(buildFn())
}

// findRenderAncestor walks the element ancestors to the nearest render
// element that owns a render node.
func (e *elementBase) findRenderAncestor() *RenderObjectElement {
	ctx := e.Framework()
	for id := range ctx.elements.Ancestors(e.ElementID()) {
		ancestor, ok := ctx.elements.Get(id)
		if !ok {
			continue
		}
		if render, ok := ancestor.(*RenderObjectElement); ok && render.renderID.IsValid() {
			return render
		}
	}
	return nil
}

// syncRenderAncestor restores element order under the nearest render
// ancestor after a composite swapped in a different subtree.
func (e *elementBase) syncRenderAncestor() {
	if ancestor := e.findRenderAncestor(); ancestor != nil {
		ancestor.syncRenderChildren(false)
	}
}

// StatelessElement hosts a stateless view.
type StatelessElement struct {
	elementBase
	config Configuration[StatelessConfiguration]
	child  ElementID
}

func (e *StatelessElement) Kind() ViewKind { return KindStateless }

// View returns the retained configuration.
func (e *StatelessElement) View() View { return e.config }

// Configuration returns the typed retained configuration.
func (e *StatelessElement) Configuration() Configuration[StatelessConfiguration] {
	return e.config
}

// Child returns the built child, if any.
func (e *StatelessElement) Child() (ElementID, bool) {
	return e.child, e.child.IsValid()
}

func (e *StatelessElement) Mount(ctx *FrameworkContext, parent ElementID) {
	e.mountBase(ctx, parent)
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatelessElement) Update(view View) {
	cfg, ok := normalize(view).(Configuration[StatelessConfiguration])
	if !ok {
		errors.Fatal("core.StatelessElement.Update", errors.KindTypeMismatch,
			"expected a stateless view, got %s", normalize(view).Kind())
	}
	e.config = cfg
}

func (e *StatelessElement) RebuildIfNeeded() {
	e.rebuildIfNeeded()
}

func (e *StatelessElement) performRebuild() {
	e.beginBuild()
	defer e.endBuild()
	cfg := e.config.Value()
	built := e.safeBuild(func() View {
		return cfg.Build(e)
	})
	e.setChild(e.ctx.updateChild(e, e.child, built))
}

func (e *StatelessElement) setChild(child ElementID) {
	if child == e.child {
		return
	}
	e.child = child
	e.syncRenderAncestor()
}

func (e *StatelessElement) VisitChildren(visitor func(ElementID) bool) {
	if e.child.IsValid() {
		visitor(e.child)
	}
}

func (e *StatelessElement) deactivate() {
	e.lifecycle = Removed
	e.child = NoElement
}

// StatefulElement hosts a stateful view and its retained State.
type StatefulElement struct {
	elementBase
	config Configuration[StatefulConfiguration]
	state  State
	child  ElementID
}

func newStatefulElement(cfg Configuration[StatefulConfiguration]) *StatefulElement {
	state := cfg.Value().CreateState()
	if state == nil {
		errors.Fatal("core.StatefulElement.CreateState", errors.KindTypeMismatch,
			"%T.CreateState returned nil", cfg.Value())
	}
	return &StatefulElement{config: cfg, state: state}
}

func (e *StatefulElement) Kind() ViewKind { return KindStateful }

// View returns the retained configuration.
func (e *StatefulElement) View() View { return e.config }

// Configuration returns the typed retained configuration.
func (e *StatefulElement) Configuration() Configuration[StatefulConfiguration] {
	return e.config
}

// State returns the state created for this element.
func (e *StatefulElement) State() State { return e.state }

// Child returns the built child, if any.
func (e *StatefulElement) Child() (ElementID, bool) {
	return e.child, e.child.IsValid()
}

func (e *StatefulElement) Mount(ctx *FrameworkContext, parent ElementID) {
	e.mountBase(ctx, parent)
	if binder, ok := e.state.(interface{ setElement(*StatefulElement) }); ok {
		binder.setElement(e)
	}
	// Dirty before InitState so a SetState there folds into the first build.
	e.dirty = true
	e.state.InitState()
	e.RebuildIfNeeded()
}

func (e *StatefulElement) Update(view View) {
	cfg, ok := normalize(view).(Configuration[StatefulConfiguration])
	if !ok {
		errors.Fatal("core.StatefulElement.Update", errors.KindTypeMismatch,
			"expected a stateful view, got %s", normalize(view).Kind())
	}
	old := e.config.Value()
	e.config = cfg
	e.state.DidUpdateConfiguration(old)
}

func (e *StatefulElement) RebuildIfNeeded() {
	e.rebuildIfNeeded()
}

func (e *StatefulElement) performRebuild() {
	e.beginBuild()
	defer e.endBuild()
	built := e.safeBuild(func() View {
		return e.state.Build(e)
	})
	e.setChild(e.ctx.updateChild(e, e.child, built))
}

func (e *StatefulElement) setChild(child ElementID) {
	if child == e.child {
		return
	}
	e.child = child
	e.syncRenderAncestor()
}

func (e *StatefulElement) VisitChildren(visitor func(ElementID) bool) {
	if e.child.IsValid() {
		visitor(e.child)
	}
}

func (e *StatefulElement) deactivate() {
	e.lifecycle = Removed
	e.child = NoElement
	e.state.Dispose()
}

// RenderObjectElement hosts a render view. It owns one node in the render
// tree and the elements of its declared children.
type RenderObjectElement struct {
	elementBase
	config       Configuration[RenderObjectConfiguration]
	renderObject layout.RenderObject
	renderID     layout.RenderID
	children     []ElementID
}

func (e *RenderObjectElement) Kind() ViewKind { return KindRenderObject }

// View returns the retained configuration.
func (e *RenderObjectElement) View() View { return e.config }

// Configuration returns the typed retained configuration.
func (e *RenderObjectElement) Configuration() Configuration[RenderObjectConfiguration] {
	return e.config
}

// RenderObject exposes the backing render object. It is nil until the
// first build.
func (e *RenderObjectElement) RenderObject() layout.RenderObject {
	return e.renderObject
}

// RenderID returns the element's render node. It is valid exactly while
// the element is mounted.
func (e *RenderObjectElement) RenderID() (layout.RenderID, bool) {
	return e.renderID, e.renderID.IsValid()
}

// Children returns the ids of the declared children in order.
func (e *RenderObjectElement) Children() []ElementID {
	return append([]ElementID(nil), e.children...)
}

func (e *RenderObjectElement) Mount(ctx *FrameworkContext, parent ElementID) {
	e.mountBase(ctx, parent)
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *RenderObjectElement) Update(view View) {
	cfg, ok := normalize(view).(Configuration[RenderObjectConfiguration])
	if !ok {
		errors.Fatal("core.RenderObjectElement.Update", errors.KindTypeMismatch,
			"expected a render view, got %s", normalize(view).Kind())
	}
	e.config = cfg
}

func (e *RenderObjectElement) RebuildIfNeeded() {
	e.rebuildIfNeeded()
}

func (e *RenderObjectElement) performRebuild() {
	e.beginBuild()
	defer e.endBuild()

	cfg := e.config.Value()
	if !e.renderID.IsValid() {
		e.renderObject = cfg.CreateRenderObject(e)
		e.attachRenderObject()
	} else {
		if updater, ok := cfg.(RenderObjectUpdater); ok {
			updater.UpdateRenderObject(e, e.renderObject)
		}
		e.ctx.render.Pipeline().MarkNeedsLayout(e.renderID)
	}

	var declared []View
	if parent, ok := cfg.(ChildrenDeclarer); ok {
		declared = parent.Children()
	}
	e.children = e.ctx.updateChildren(e, e.children, declared)
	if err := e.ctx.elements.SetChildren(e.id, e.children); err != nil {
		errors.Fatal("core.RenderObjectElement.rebuild", errors.KindStaleID,
			"order children of %s: %v", e.id, err)
	}
	e.syncRenderChildren(true)
}

func (e *RenderObjectElement) VisitChildren(visitor func(ElementID) bool) {
	for _, child := range e.children {
		if !visitor(child) {
			return
		}
	}
}

func (e *RenderObjectElement) deactivate() {
	e.lifecycle = Removed
	e.children = nil
	if !e.renderID.IsValid() {
		return
	}
	if err := e.ctx.render.Remove(e.renderID); err != nil {
		errors.Fatal("core.RenderObjectElement.deactivate", errors.KindRender,
			"remove render node of %s: %v", e.id, err)
	}
	e.renderID = layout.RenderID{}
}

// attachRenderObject inserts the render object under the nearest render
// ancestor, or as a render root when there is none.
func (e *RenderObjectElement) attachRenderObject() {
	var parent layout.RenderID
	if ancestor := e.findRenderAncestor(); ancestor != nil {
		parent = ancestor.renderID
	}
	id, err := e.ctx.render.Insert(parent, e.renderObject)
	if err != nil {
		errors.Fatal("core.RenderObjectElement.attach", errors.KindRender,
			"attach render object of %s: %v", e.id, err)
	}
	e.renderID = id
}

// syncRenderChildren orders the render children of this element's node to
// follow element order. While children are still being reconciled the
// element list may not cover every attached node; in that case the sync is
// skipped unless strict is set.
func (e *RenderObjectElement) syncRenderChildren(strict bool) {
	if !e.renderID.IsValid() {
		return
	}
	order := make([]layout.RenderID, 0, len(e.children))
	for _, child := range e.children {
		order = e.ctx.collectRenderIDs(child, order)
	}
	current := e.ctx.render.Children(e.renderID)
	if len(order) != len(current) {
		if strict {
			errors.Fatal("core.RenderObjectElement.syncRenderChildren", errors.KindRender,
				"element %s has %d render descendants but its node has %d children",
				e.id, len(order), len(current))
		}
		return
	}
	if err := e.ctx.render.Reorder(e.renderID, order); err != nil {
		errors.Fatal("core.RenderObjectElement.syncRenderChildren", errors.KindRender,
			"reorder render children of %s: %v", e.id, err)
	}
}
