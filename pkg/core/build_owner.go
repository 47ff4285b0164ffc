package core

import (
	"slices"
	"sync"
)

// BuildOwner holds the elements marked dirty since the last flush. Each
// element appears in the queue at most once, however often it is marked.
type BuildOwner struct {
	mu     sync.Mutex
	queue  []Element
	queued map[ElementID]struct{}

	// OnNeedsFrame fires each time an element joins the queue. Hosts use
	// it to request a FlushBuild.
	OnNeedsFrame func()
}

// NewBuildOwner returns an empty BuildOwner.
func NewBuildOwner() *BuildOwner {
	return &BuildOwner{queued: make(map[ElementID]struct{})}
}

// ScheduleBuild queues element for the next FlushBuild. Queueing an element
// that is already queued does nothing.
func (b *BuildOwner) ScheduleBuild(element Element) {
	b.mu.Lock()
	id := element.ElementID()
	_, dup := b.queued[id]
	if !dup {
		b.queued[id] = struct{}{}
		b.queue = append(b.queue, element)
	}
	notify := b.OnNeedsFrame
	b.mu.Unlock()

	if !dup && notify != nil {
		notify()
	}
}

// NeedsWork reports whether any element is waiting to be rebuilt.
func (b *BuildOwner) NeedsWork() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue) > 0
}

// take swaps out the queue, shallowest elements first. Equal depths keep
// scheduling order.
func (b *BuildOwner) take() []Element {
	b.mu.Lock()
	defer b.mu.Unlock()
	batch := b.queue
	b.queue = nil
	clear(b.queued)
	slices.SortStableFunc(batch, func(x, y Element) int {
		return x.Depth() - y.Depth()
	})
	return batch
}

// FlushBuild rebuilds queued elements until the queue stays empty, so
// elements marked dirty by a rebuild in this flush are handled before it
// returns. Elements unmounted while waiting are dropped.
func (b *BuildOwner) FlushBuild() {
	for batch := b.take(); len(batch) > 0; batch = b.take() {
		for _, element := range batch {
			if element.base().isMounted() {
				element.RebuildIfNeeded()
			}
		}
	}
}
