// Package arena provides a flat, indexed tree store.
//
// Nodes live in a slice and refer to each other through [NodeID] values
// instead of pointers, so a subtree can be dropped or replaced without
// any reparenting ceremony and without reference cycles. Freed slots are
// reused with a bumped generation, which makes ids of removed nodes
// detectably stale.
package arena

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrStaleNode is returned when an id refers to a removed (or never
	// allocated) node.
	ErrStaleNode = errors.New("arena: stale or invalid node id")
	// ErrHasParent is returned when appending a node that is already linked.
	ErrHasParent = errors.New("arena: node already has a parent")
	// ErrCycle is returned when appending a node under one of its descendants.
	ErrCycle = errors.New("arena: append would create a cycle")
	// ErrNotPermutation is returned by SetChildren when the new order does
	// not contain exactly the current children.
	ErrNotPermutation = errors.New("arena: children order is not a permutation")
)

// NodeID identifies a node in an [Arena]. The zero value is invalid.
type NodeID struct {
	index      uint32 // slot index + 1
	generation uint32
}

// IsValid reports whether the id was handed out by an arena. It does not
// check whether the node is still alive; use [Arena.Contains] for that.
func (id NodeID) IsValid() bool {
	return id.index != 0
}

func (id NodeID) String() string {
	if !id.IsValid() {
		return "#-"
	}
	if id.generation == 0 {
		return fmt.Sprintf("#%d", id.index-1)
	}
	return fmt.Sprintf("#%d.%d", id.index-1, id.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
	parent     NodeID
	children   []NodeID
}

// Arena stores values of type T in a forest addressed by [NodeID].
// It is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Len returns the number of live nodes.
func (a *Arena[T]) Len() int {
	return a.count
}

// NewNode stores value as a detached root and returns its id.
func (a *Arena[T]) NewNode(value T) NodeID {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.value = value
		s.live = true
		a.count++
		return NodeID{index: index + 1, generation: s.generation}
	}
	a.slots = append(a.slots, slot[T]{value: value, live: true})
	a.count++
	return NodeID{index: uint32(len(a.slots))}
}

func (a *Arena[T]) slot(id NodeID) (*slot[T], bool) {
	if !id.IsValid() || int(id.index) > len(a.slots) {
		return nil, false
	}
	s := &a.slots[id.index-1]
	if !s.live || s.generation != id.generation {
		return nil, false
	}
	return s, true
}

// Contains reports whether id refers to a live node.
func (a *Arena[T]) Contains(id NodeID) bool {
	_, ok := a.slot(id)
	return ok
}

// Get returns the value stored at id.
func (a *Arena[T]) Get(id NodeID) (T, bool) {
	s, ok := a.slot(id)
	if !ok {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Set replaces the value stored at id.
func (a *Arena[T]) Set(id NodeID, value T) error {
	s, ok := a.slot(id)
	if !ok {
		return fmt.Errorf("set %s: %w", id, ErrStaleNode)
	}
	s.value = value
	return nil
}

// Parent returns the parent of id, if any.
func (a *Arena[T]) Parent(id NodeID) (NodeID, bool) {
	s, ok := a.slot(id)
	if !ok || !s.parent.IsValid() {
		return NodeID{}, false
	}
	return s.parent, true
}

// Children returns a copy of the ordered children of id.
func (a *Arena[T]) Children(id NodeID) []NodeID {
	s, ok := a.slot(id)
	if !ok {
		return nil
	}
	return slices.Clone(s.children)
}

// Ancestors yields the ancestors of id from its parent up to the root.
// The walk is bounded by the tree depth.
func (a *Arena[T]) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		current, ok := a.Parent(id)
		for ok {
			if !yield(current) {
				return
			}
			current, ok = a.Parent(current)
		}
	}
}

// Depth returns the number of ancestors of id.
func (a *Arena[T]) Depth(id NodeID) int {
	depth := 0
	for range a.Ancestors(id) {
		depth++
	}
	return depth
}

// Descendants yields id and all of its descendants in depth-first pre-order.
func (a *Arena[T]) Descendants(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		a.walk(id, yield)
	}
}

func (a *Arena[T]) walk(id NodeID, yield func(NodeID) bool) bool {
	s, ok := a.slot(id)
	if !ok {
		return true
	}
	children := slices.Clone(s.children)
	if !yield(id) {
		return false
	}
	for _, child := range children {
		if !a.walk(child, yield) {
			return false
		}
	}
	return true
}

// Roots returns the live nodes without a parent, in slot order.
func (a *Arena[T]) Roots() []NodeID {
	var roots []NodeID
	for i := range a.slots {
		s := &a.slots[i]
		if s.live && !s.parent.IsValid() {
			roots = append(roots, NodeID{index: uint32(i) + 1, generation: s.generation})
		}
	}
	return roots
}

// Append links child as the last child of parent. Cycles are reported
// before an existing parent link.
func (a *Arena[T]) Append(parent, child NodeID) error {
	ps, ok := a.slot(parent)
	if !ok {
		return fmt.Errorf("append to %s: %w", parent, ErrStaleNode)
	}
	cs, ok := a.slot(child)
	if !ok {
		return fmt.Errorf("append %s: %w", child, ErrStaleNode)
	}
	if parent == child {
		return fmt.Errorf("append %s under itself: %w", child, ErrCycle)
	}
	for ancestor := range a.Ancestors(parent) {
		if ancestor == child {
			return fmt.Errorf("append %s under %s: %w", child, parent, ErrCycle)
		}
	}
	if cs.parent.IsValid() {
		return fmt.Errorf("append %s under %s: %w", child, parent, ErrHasParent)
	}
	cs.parent = parent
	ps.children = append(ps.children, child)
	return nil
}

// Detach unlinks id from its parent, making it a root. Detaching a root
// is a no-op.
func (a *Arena[T]) Detach(id NodeID) error {
	s, ok := a.slot(id)
	if !ok {
		return fmt.Errorf("detach %s: %w", id, ErrStaleNode)
	}
	if !s.parent.IsValid() {
		return nil
	}
	if ps, ok := a.slot(s.parent); ok {
		ps.children = slices.DeleteFunc(ps.children, func(c NodeID) bool { return c == id })
	}
	s.parent = NodeID{}
	return nil
}

// SetChildren reorders the children of parent. order must contain
// exactly the current children.
func (a *Arena[T]) SetChildren(parent NodeID, order []NodeID) error {
	s, ok := a.slot(parent)
	if !ok {
		return fmt.Errorf("set children of %s: %w", parent, ErrStaleNode)
	}
	if len(order) != len(s.children) {
		return fmt.Errorf("set children of %s: %w", parent, ErrNotPermutation)
	}
	for _, id := range order {
		if !slices.Contains(s.children, id) {
			return fmt.Errorf("set children of %s: %s: %w", parent, id, ErrNotPermutation)
		}
	}
	s.children = slices.Clone(order)
	return nil
}

// Remove detaches id and frees it together with its whole subtree. visit,
// if non-nil, is called for each freed node in post-order (children
// before parents) before its slot is released.
func (a *Arena[T]) Remove(id NodeID, visit func(NodeID, T)) error {
	if err := a.Detach(id); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	a.release(id, visit)
	return nil
}

func (a *Arena[T]) release(id NodeID, visit func(NodeID, T)) {
	s, ok := a.slot(id)
	if !ok {
		return
	}
	for _, child := range slices.Clone(s.children) {
		a.release(child, visit)
	}
	if visit != nil {
		visit(id, s.value)
		// visit may have grown the slot slice.
		s = &a.slots[id.index-1]
	}
	var zero T
	s.value = zero
	s.children = nil
	s.parent = NodeID{}
	s.live = false
	s.generation++
	a.free = append(a.free, id.index-1)
	a.count--
}
