package core

import (
	"github.com/go-drift/compose/pkg/errors"
	"github.com/go-drift/compose/pkg/layout"
)

// updateChild reconciles the element in a single child slot against the
// newly built view and returns the id now occupying the slot. parent is nil
// for a root slot.
//
//   - next is Empty: the existing child subtree is deactivated.
//   - no existing child: next is inflated and mounted.
//   - structurally equal: nothing happens.
//   - same type and key path: the child is updated in place and rebuilt.
//   - anything else: the old subtree is deactivated, then next is inflated.
func (c *FrameworkContext) updateChild(parent Element, child ElementID, next View) ElementID {
	next = normalize(next)
	if next.Kind() == KindEmpty {
		if child.IsValid() {
			c.report(DecisionRemove, child, c.mustElement("core.updateChild", child).View())
			c.deactivate(child)
		}
		return NoElement
	}
	if !child.IsValid() {
		id := c.inflate(parent, next)
		c.report(DecisionInflate, id, next)
		return id
	}

	existing := c.mustElement("core.updateChild", child)
	current := existing.View()
	switch {
	case ViewsEqual(current, next):
		c.report(DecisionSkip, child, next)
		return child
	case CanUpdate(current, next):
		existing.Update(next)
		c.report(DecisionUpdate, child, next)
		existing.base().dirty = true
		existing.RebuildIfNeeded()
		return child
	default:
		c.report(DecisionReplace, child, next)
		c.deactivate(child)
		return c.inflate(parent, next)
	}
}

// updateChildren reconciles a render element's declared children. Each new
// view takes the first unclaimed old child it can update in place; old
// children left unclaimed are deactivated before any new child is
// inflated.
func (c *FrameworkContext) updateChildren(parent Element, old []ElementID, views []View) []ElementID {
	next := make([]View, 0, len(views))
	for _, view := range views {
		if view = normalize(view); view.Kind() != KindEmpty {
			next = append(next, view)
		}
	}

	claimed := make([]bool, len(old))
	slots := make([]ElementID, len(next))
	for i, view := range next {
		for j, id := range old {
			if claimed[j] {
				continue
			}
			if CanUpdate(c.mustElement("core.updateChildren", id).View(), view) {
				slots[i] = id
				claimed[j] = true
				break
			}
		}
	}
	for j, id := range old {
		if !claimed[j] {
			c.report(DecisionRemove, id, c.mustElement("core.updateChildren", id).View())
			c.deactivate(id)
		}
	}

	result := make([]ElementID, 0, len(next))
	for i, view := range next {
		if id := c.updateChild(parent, slots[i], view); id.IsValid() {
			result = append(result, id)
		}
	}
	return result
}

// inflate creates the element for view and mounts it under parent.
func (c *FrameworkContext) inflate(parent Element, view View) ElementID {
	id, ok := c.IntoElement(view)
	if !ok {
		return NoElement
	}
	parentID := NoElement
	if parent != nil {
		parentID = parent.ElementID()
	}
	c.mustElement("core.inflate", id).Mount(c, parentID)
	return id
}

// deactivate removes the subtree rooted at id, children first, releasing
// states and render nodes.
func (c *FrameworkContext) deactivate(id ElementID) {
	err := c.elements.Remove(id, func(removed ElementID, element Element) {
		element.deactivate()
		c.logger.Debug().Stringer("element", removed).Stringer("kind", element.Kind()).Msg("unmount")
	})
	if err != nil {
		errors.Fatal("core.deactivate", errors.KindStaleID, "deactivate %s: %v", id, err)
	}
}

// collectRenderIDs appends the render nodes that id contributes to its
// render parent: its own node for a render element, or those of its child
// for a composite.
func (c *FrameworkContext) collectRenderIDs(id ElementID, out []layout.RenderID) []layout.RenderID {
	element, ok := c.elements.Get(id)
	if !ok {
		return out
	}
	if render, ok := element.(*RenderObjectElement); ok {
		if render.renderID.IsValid() {
			out = append(out, render.renderID)
		}
		return out
	}
	element.VisitChildren(func(child ElementID) bool {
		out = c.collectRenderIDs(child, out)
		return true
	})
	return out
}

func (c *FrameworkContext) report(decision Decision, id ElementID, view View) {
	c.observer.OnReconcile(decision, view.Kind())
	c.logger.Trace().
		Stringer("decision", decision).
		Stringer("element", id).
		Stringer("kind", view.Kind()).
		Stringer("key", view.KeyPath()).
		Msg("reconcile")
}
