// Copyright (c) 2024 The treereduce developers

// Package treesitter adapts github.com/smacker/go-tree-sitter onto the
// internal/tree.Tree and internal/driver.Parser interfaces. A sitter.Node
// is only a thin, short-lived handle into the underlying C tree, so on
// every parse this adapter walks it once and copies every named node's
// kind, byte range, and parent/child links into a flat, array-backed
// structure (anonymous nodes such as punctuation are not copied)
// that is cheap to share read-only across every worker goroutine of a
// pass, without holding the native tree alive or touching cgo again.
package treesitter

import (
	"context"
	"os"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/quillparse/treereduce/internal/nodetypes"
	"github.com/quillparse/treereduce/internal/tree"
)

// Grammar names a supported tree-sitter language binding plus its
// node-types.json schema.
type Grammar struct {
	Name      string
	Language  *sitter.Language
	NodeTypes nodetypes.NodeTypes
}

// LoadNodeTypesFile reads and parses a node-types.json file from disk.
func LoadNodeTypesFile(path string) (nodetypes.NodeTypes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nodetypes.NodeTypes{}, errors.Wrap(err, "treesitter: read node-types.json")
	}
	return nodetypes.Parse(data)
}

// C returns the C grammar binding paired with nt, the C node-types schema
// (e.g. as loaded by LoadNodeTypesFile; see replacements/c.go for its
// canonical replacement table).
func C(nt nodetypes.NodeTypes) Grammar {
	return Grammar{Name: "c", Language: c.GetLanguage(), NodeTypes: nt}
}

// Adapter implements driver.Parser for one Grammar.
type Adapter struct {
	grammar Grammar
}

// New builds an Adapter for grammar.
func New(grammar Grammar) *Adapter {
	return &Adapter{grammar: grammar}
}

// Parse parses text with the adapter's grammar and flattens the resulting
// sitter.Tree into a snapshotTree.
func (a *Adapter) Parse(text []byte) (tree.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(a.grammar.Language)

	sitterTree, err := parser.ParseCtx(context.Background(), nil, text)
	if err != nil {
		return nil, err
	}
	defer sitterTree.Close()

	return flatten(sitterTree.RootNode()), nil
}

// flatNode is one node of the flattened, array-backed tree.
type flatNode struct {
	kind     string
	start    int
	end      int
	parent   tree.NodeID
	hasPar   bool
	children []tree.NodeID
	hasError bool
}

// snapshotTree is a tree.Tree backed by a flat slice built once from a
// sitter.Tree, safe for unlimited concurrent reads.
type snapshotTree struct {
	nodes    []flatNode
	root     tree.NodeID
	hasError bool
}

func (s *snapshotTree) Root() tree.NodeID { return s.root }
func (s *snapshotTree) Kind(id tree.NodeID) string { return s.nodes[id].kind }
func (s *snapshotTree) Range(id tree.NodeID) (int, int) {
	n := s.nodes[id]
	return n.start, n.end
}
func (s *snapshotTree) Parent(id tree.NodeID) (tree.NodeID, bool) {
	n := s.nodes[id]
	return n.parent, n.hasPar
}
func (s *snapshotTree) Children(id tree.NodeID) []tree.NodeID { return s.nodes[id].children }
func (s *snapshotTree) HasError() bool                        { return s.hasError }

// flatten walks root once in pre-order, assigning each visited node the
// next sequential NodeID and copying its kind/range/error state.
func flatten(root *sitter.Node) *snapshotTree {
	s := &snapshotTree{}
	s.root = s.walk(root, 0, false)
	s.hasError = root.HasError()
	return s
}

func (s *snapshotTree) walk(n *sitter.Node, parent tree.NodeID, hasParent bool) tree.NodeID {
	id := tree.NodeID(len(s.nodes))
	s.nodes = append(s.nodes, flatNode{
		kind:     n.Type(),
		start:    int(n.StartByte()),
		end:      int(n.EndByte()),
		parent:   parent,
		hasPar:   hasParent,
		hasError: n.IsError(),
	})

	count := int(n.NamedChildCount())
	children := make([]tree.NodeID, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		childID := s.walk(child, id, true)
		children = append(children, childID)
	}
	s.nodes[id].children = children
	return id
}
