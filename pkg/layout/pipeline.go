package layout

import "slices"

// PipelineOwner tracks render nodes whose configuration or children
// changed since the host last ran layout.
//
// The engine marks nodes when they are inserted, when their children
// change and when their render element is updated in place. The host
// drains the set with FlushLayout, parents first.
type PipelineOwner struct {
	tree     *RenderTree
	dirty    []RenderID
	dirtySet map[RenderID]bool
}

// MarkNeedsLayout schedules id for the next FlushLayout.
func (p *PipelineOwner) MarkNeedsLayout(id RenderID) {
	if !id.IsValid() {
		return
	}
	if p.dirtySet == nil {
		p.dirtySet = make(map[RenderID]bool)
	}
	if p.dirtySet[id] {
		return
	}
	p.dirtySet[id] = true
	p.dirty = append(p.dirty, id)
}

// NeedsLayout reports if any attached render node is scheduled.
func (p *PipelineOwner) NeedsLayout() bool {
	for _, id := range p.dirty {
		if p.tree.Contains(id) {
			return true
		}
	}
	return false
}

// FlushLayout calls fn for every scheduled node that is still attached,
// in depth order (parents first), then clears the schedule. It returns
// the number of nodes visited.
func (p *PipelineOwner) FlushLayout(fn func(RenderID, RenderObject)) int {
	dirty := p.dirty
	p.dirty = nil
	p.dirtySet = nil

	dirty = slices.DeleteFunc(dirty, func(id RenderID) bool {
		return !p.tree.Contains(id)
	})
	slices.SortStableFunc(dirty, func(a, b RenderID) int {
		return p.tree.Depth(a) - p.tree.Depth(b)
	})
	for _, id := range dirty {
		if fn != nil {
			object, _ := p.tree.Object(id)
			fn(id, object)
		}
	}
	return len(dirty)
}
