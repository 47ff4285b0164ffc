package core

import (
	"github.com/rs/zerolog"

	"github.com/go-drift/compose/pkg/arena"
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/layout"
)

// FrameworkContext owns the element arena, the render tree and the build
// owner of one UI tree. Every element operation takes the context
// explicitly; there is no global instance.
//
// A FrameworkContext is not safe for concurrent use. Only
// [BuildOwner.ScheduleBuild] may be called from other goroutines.
type FrameworkContext struct {
	elements    *arena.Arena[Element]
	render      *layout.RenderTree
	owner       *BuildOwner
	logger      zerolog.Logger
	observer    ReconcileObserver
	syncRebuild bool
}

// Option configures a FrameworkContext.
type Option func(*FrameworkContext)

// WithLogger sets the logger used for mount, unmount and reconciliation
// events. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *FrameworkContext) {
		c.logger = logger
	}
}

// WithObserver registers an observer for reconciliation decisions and
// rebuilds.
func WithObserver(observer ReconcileObserver) Option {
	return func(c *FrameworkContext) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithSyncRebuild makes MarkNeedsBuild rebuild the element immediately
// instead of scheduling it on the build owner.
func WithSyncRebuild(enabled bool) Option {
	return func(c *FrameworkContext) {
		c.syncRebuild = enabled
	}
}

// WithOnNeedsFrame sets the callback invoked when an element is scheduled
// for rebuild.
func WithOnNeedsFrame(fn func()) Option {
	return func(c *FrameworkContext) {
		c.owner.OnNeedsFrame = fn
	}
}

// NewFrameworkContext creates an empty context.
func NewFrameworkContext(opts ...Option) *FrameworkContext {
	ctx := &FrameworkContext{
		elements: arena.New[Element](),
		render:   layout.NewRenderTree(),
		owner:    NewBuildOwner(),
		logger:   zerolog.Nop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Element returns the live element with the given id.
func (c *FrameworkContext) Element(id ElementID) (Element, bool) {
	return c.elements.Get(id)
}

func (c *FrameworkContext) mustElement(op string, id ElementID) Element {
	element, ok := c.elements.Get(id)
	if !ok {
		errors.Fatal(op, errors.KindStaleID, "element %s is not live", id)
	}
	return element
}

// Len returns the number of live elements.
func (c *FrameworkContext) Len() int {
	return c.elements.Len()
}

// Parent returns the parent of id, if any.
func (c *FrameworkContext) Parent(id ElementID) (ElementID, bool) {
	return c.elements.Parent(id)
}

// Children returns the children of id in order.
func (c *FrameworkContext) Children(id ElementID) []ElementID {
	return c.elements.Children(id)
}

// Roots returns every element without a parent.
func (c *FrameworkContext) Roots() []ElementID {
	return c.elements.Roots()
}

// RenderTree returns the render-object tree projected from render elements.
func (c *FrameworkContext) RenderTree() *layout.RenderTree {
	return c.render
}

// BuildOwner returns the scheduler holding dirty elements.
func (c *FrameworkContext) BuildOwner() *BuildOwner {
	return c.owner
}

// Logger returns the context logger.
func (c *FrameworkContext) Logger() *zerolog.Logger {
	return &c.logger
}

// IntoElement creates an unmounted element for view and returns its id.
// Empty produces no element.
func (c *FrameworkContext) IntoElement(view View) (ElementID, bool) {
	var element Element
	switch cfg := normalize(view).(type) {
	case emptyView:
		return NoElement, false
	case Configuration[StatelessConfiguration]:
		element = &StatelessElement{config: cfg}
	case Configuration[StatefulConfiguration]:
		element = newStatefulElement(cfg)
	case Configuration[RenderObjectConfiguration]:
		element = &RenderObjectElement{config: cfg}
	default:
		errors.Fatal("core.IntoElement", errors.KindTypeMismatch, "unsupported view %T", view)
	}
	id := c.elements.NewNode(element)
	element.base().initialize(id, c, element)
	return id, true
}

// IntoElement is shorthand for ctx.IntoElement(view).
func IntoElement(ctx *FrameworkContext, view View) (ElementID, bool) {
	return ctx.IntoElement(view)
}

// Mount links the unmounted element id under parent, or as a root when
// parent is NoElement, and builds it.
func (c *FrameworkContext) Mount(id, parent ElementID) {
	c.mustElement("core.Mount", id).Mount(c, parent)
}

// MountRoot inflates view and mounts it as a root. It returns NoElement for
// Empty.
func (c *FrameworkContext) MountRoot(view View) ElementID {
	return c.updateChild(nil, NoElement, view)
}

// UpdateRoot reconciles the root element against a new view using the same
// rules as any child slot, and returns the id now holding the root.
func (c *FrameworkContext) UpdateRoot(root ElementID, view View) ElementID {
	if root.IsValid() {
		if _, hasParent := c.elements.Parent(root); hasParent {
			errors.Fatal("core.UpdateRoot", errors.KindLifecycle, "element %s is not a root", root)
		}
	}
	return c.updateChild(nil, root, view)
}

// Unmount deactivates the subtree rooted at id.
func (c *FrameworkContext) Unmount(id ElementID) {
	if parent, ok := c.elements.Parent(id); ok {
		errors.Fatal("core.Unmount", errors.KindLifecycle, "element %s is a child of %s", id, parent)
	}
	c.deactivate(id)
}

// FlushBuild rebuilds every scheduled element in depth order.
func (c *FrameworkContext) FlushBuild() {
	c.owner.FlushBuild()
}

// RenderObjectOf returns the render object that id contributes to the
// render tree: its own for a render element, otherwise the first one found
// below it.
func (c *FrameworkContext) RenderObjectOf(id ElementID) (layout.RenderObject, bool) {
	renderIDs := c.collectRenderIDs(id, nil)
	if len(renderIDs) == 0 {
		return nil, false
	}
	return c.render.Object(renderIDs[0])
}
