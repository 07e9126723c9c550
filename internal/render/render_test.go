// Copyright (c) 2024 The treereduce developers

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillparse/treereduce/internal/edits"
	"github.com/quillparse/treereduce/internal/tree"
)

type fakeNode struct {
	kind     string
	start    int
	end      int
	parent   tree.NodeID
	hasPar   bool
	children []tree.NodeID
}

type fakeTree struct {
	nodes []fakeNode
	root  tree.NodeID
}

func (f *fakeTree) Root() tree.NodeID          { return f.root }
func (f *fakeTree) Kind(id tree.NodeID) string { return f.nodes[id].kind }
func (f *fakeTree) Range(id tree.NodeID) (int, int) {
	n := f.nodes[id]
	return n.start, n.end
}
func (f *fakeTree) Parent(id tree.NodeID) (tree.NodeID, bool) {
	n := f.nodes[id]
	return n.parent, n.hasPar
}
func (f *fakeTree) Children(id tree.NodeID) []tree.NodeID { return f.nodes[id].children }
func (f *fakeTree) HasError() bool                        { return false }

// buildTree constructs: block [ stmt "a", stmt "b", stmt "c" ]
func buildTree() (*fakeTree, []byte) {
	text := []byte("abc")
	f := &fakeTree{}
	f.nodes = []fakeNode{
		{kind: "block", start: 0, end: 3},
		{kind: "stmt", start: 0, end: 1, parent: 0, hasPar: true},
		{kind: "stmt", start: 1, end: 2, parent: 0, hasPar: true},
		{kind: "stmt", start: 2, end: 3, parent: 0, hasPar: true},
	}
	f.nodes[0].children = []tree.NodeID{1, 2, 3}
	f.root = 0
	return f, text
}

func TestRenderIdentityWithNoEdits(t *testing.T) {
	tr, text := buildTree()
	out := Render(tr, text, edits.Empty())
	assert.Equal(t, "abc", string(out))
}

func TestRenderOmitsDeletedNode(t *testing.T) {
	tr, text := buildTree()
	e := edits.Empty().WithOmit(2)
	out := Render(tr, text, e)
	assert.Equal(t, "ac", string(out))
}

func TestRenderOmitsMultipleNodes(t *testing.T) {
	tr, text := buildTree()
	e := edits.Empty().WithOmitMany([]tree.NodeID{1, 3})
	out := Render(tr, text, e)
	assert.Equal(t, "b", string(out))
}

func TestRenderReplacesNode(t *testing.T) {
	tr, text := buildTree()
	e := edits.Empty().WithReplace(2, []byte("X"))
	out := Render(tr, text, e)
	assert.Equal(t, "aXc", string(out))
}

func TestRenderOmitsWholeSubtreeWhenRootReplaced(t *testing.T) {
	tr, text := buildTree()
	e := edits.Empty().WithReplace(0, []byte(""))
	out := Render(tr, text, e)
	assert.Equal(t, "", string(out))
}

func TestChangedReportsWhetherEditsArePresent(t *testing.T) {
	assert.False(t, Changed(edits.Empty()))
	assert.True(t, Changed(edits.Empty().WithOmit(1)))
}
