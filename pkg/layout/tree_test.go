package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBox struct {
	name     string
	parent   RenderObject
	children []RenderObject
	disposed bool
}

func (b *testBox) SetParent(parent RenderObject)       { b.parent = parent }
func (b *testBox) SetChildren(children []RenderObject) { b.children = children }
func (b *testBox) Dispose()                            { b.disposed = true }

func TestInsertRootAndChildren(t *testing.T) {
	tree := NewRenderTree()
	root := &testBox{name: "root"}
	a := &testBox{name: "a"}
	b := &testBox{name: "b"}

	rootID, err := tree.Insert(RenderID{}, root)
	require.NoError(t, err)
	aID, err := tree.Insert(rootID, a)
	require.NoError(t, err)
	bID, err := tree.Insert(rootID, b)
	require.NoError(t, err)

	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, []RenderID{rootID}, tree.Roots())
	assert.Equal(t, []RenderID{aID, bID}, tree.Children(rootID))
	assert.Same(t, root, a.parent)
	assert.Equal(t, []RenderObject{a, b}, root.children)

	parent, ok := tree.Parent(bID)
	require.True(t, ok)
	assert.Equal(t, rootID, parent)
	assert.Equal(t, 1, tree.Depth(bID))
}

func TestInsertUnderStaleParentFails(t *testing.T) {
	tree := NewRenderTree()
	id, err := tree.Insert(RenderID{}, &testBox{})
	require.NoError(t, err)
	require.NoError(t, tree.Remove(id))

	_, err = tree.Insert(id, &testBox{})
	assert.Error(t, err)
	assert.Equal(t, 0, tree.Len())
}

func TestRemoveDetachesAndDisposesSubtree(t *testing.T) {
	tree := NewRenderTree()
	root := &testBox{name: "root"}
	mid := &testBox{name: "mid"}
	leaf := &testBox{name: "leaf"}

	rootID, _ := tree.Insert(RenderID{}, root)
	midID, _ := tree.Insert(rootID, mid)
	_, _ = tree.Insert(midID, leaf)

	require.NoError(t, tree.Remove(midID))

	assert.Equal(t, 1, tree.Len())
	assert.True(t, mid.disposed)
	assert.True(t, leaf.disposed)
	assert.Nil(t, mid.parent)
	assert.Empty(t, root.children)
	assert.Error(t, tree.Remove(midID))
}

func TestReorderSyncsChildren(t *testing.T) {
	tree := NewRenderTree()
	root := &testBox{}
	a, b := &testBox{name: "a"}, &testBox{name: "b"}
	rootID, _ := tree.Insert(RenderID{}, root)
	aID, _ := tree.Insert(rootID, a)
	bID, _ := tree.Insert(rootID, b)

	require.NoError(t, tree.Reorder(rootID, []RenderID{bID, aID}))
	assert.Equal(t, []RenderObject{b, a}, root.children)
	assert.Error(t, tree.Reorder(rootID, []RenderID{bID}))
}

func TestVisitPreOrder(t *testing.T) {
	tree := NewRenderTree()
	rootID, _ := tree.Insert(RenderID{}, &testBox{name: "root"})
	aID, _ := tree.Insert(rootID, &testBox{name: "a"})
	_, _ = tree.Insert(aID, &testBox{name: "a1"})
	_, _ = tree.Insert(rootID, &testBox{name: "b"})

	var names []string
	tree.Visit(rootID, func(_ RenderID, object RenderObject) bool {
		names = append(names, object.(*testBox).name)
		return true
	})
	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)
}

func TestPipelineFlushesParentsFirst(t *testing.T) {
	tree := NewRenderTree()
	rootID, _ := tree.Insert(RenderID{}, &testBox{name: "root"})
	aID, _ := tree.Insert(rootID, &testBox{name: "a"})
	leafID, _ := tree.Insert(aID, &testBox{name: "leaf"})

	pipeline := tree.Pipeline()
	require.True(t, pipeline.NeedsLayout())

	var order []RenderID
	n := pipeline.FlushLayout(func(id RenderID, _ RenderObject) {
		order = append(order, id)
	})
	assert.Equal(t, 3, n)
	assert.Equal(t, []RenderID{rootID, aID, leafID}, order)
	assert.False(t, pipeline.NeedsLayout())

	pipeline.MarkNeedsLayout(leafID)
	require.NoError(t, tree.Remove(leafID))
	// Only the parent of the removed node is still scheduled.
	order = nil
	pipeline.FlushLayout(func(id RenderID, _ RenderObject) { order = append(order, id) })
	assert.Equal(t, []RenderID{aID}, order)
}
