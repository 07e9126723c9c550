// Copyright (c) 2024 The treereduce developers

// Package nodetypes builds a derived view of a grammar's node-type schema
// (tree-sitter's node-types.json shape, see spec.md §6) answering the three
// questions the reducer's Explore tactic needs: is a node optional under its
// parent, which child kinds of a parent form a zero-or-more list, and which
// concrete kinds does an abstract supertype expand to.
package nodetypes

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Subtype names one alternative a field or children spec accepts.
type subtypeJSON struct {
	Type  string `json:"type"`
	Named bool   `json:"named"`
}

type childrenJSON struct {
	Multiple bool          `json:"multiple"`
	Required bool          `json:"required"`
	Types    []subtypeJSON `json:"types"`
}

type fieldJSON struct {
	Multiple bool          `json:"multiple"`
	Required bool          `json:"required"`
	Types    []subtypeJSON `json:"types"`
}

type nodeJSON struct {
	Type     string                 `json:"type"`
	Named    bool                   `json:"named"`
	Children childrenJSON           `json:"children"`
	Fields   map[string]fieldJSON   `json:"fields"`
	Subtypes []subtypeJSON          `json:"subtypes"`
}

// fieldInfo records one place a child kind can legally appear.
type fieldInfo struct {
	parentKind string
	multiple   bool
	required   bool
}

// NodeTypes is the derived, query-friendly view of a grammar's node-types
// schema. Built once per grammar and shared (read-only) across all passes
// and all worker goroutines of a pass.
type NodeTypes struct {
	children      map[string]childrenJSON
	subtypesOf    map[string][]string
	reverseFields map[string][]fieldInfo
}

// Parse builds a NodeTypes from a node-types.json document's raw bytes.
func Parse(data []byte) (NodeTypes, error) {
	var nodes []nodeJSON
	if err := json.Unmarshal(data, &nodes); err != nil {
		return NodeTypes{}, errors.Wrap(err, "nodetypes: parse node-types.json")
	}
	return build(nodes), nil
}

func subtypesOf(name string, nodes []nodeJSON) []string {
	r := []string{name}
	for _, n := range nodes {
		if n.Type == name {
			for _, sub := range n.Subtypes {
				r = append(r, sub.Type)
				r = append(r, subtypesOf(sub.Type, nodes)...)
			}
		}
	}
	return r
}

func build(nodes []nodeJSON) NodeTypes {
	nt := NodeTypes{
		children:      make(map[string]childrenJSON, len(nodes)),
		subtypesOf:    make(map[string][]string, len(nodes)),
		reverseFields: make(map[string][]fieldInfo),
	}
	for _, n := range nodes {
		nt.children[n.Type] = n.Children
		nt.subtypesOf[n.Type] = subtypesOf(n.Type, nodes)
	}
	for _, n := range nodes {
		for _, field := range n.Fields {
			for _, subtype := range field.Types {
				for _, subsub := range nt.subtypesOf[subtype.Type] {
					nt.reverseFields[subsub] = append(nt.reverseFields[subsub], fieldInfo{
						parentKind: n.Type,
						multiple:   field.Multiple,
						required:   field.Required,
					})
				}
			}
		}
	}
	return nt
}

// Optional reports whether childKind is optional under parentKind. It
// defaults to true (safe-to-try-deleting) whenever the schema doesn't
// pin down a required, non-repeated edge — grammar ambiguity resolves in
// favor of attempting the deletion, per spec.md §9.
func (nt NodeTypes) Optional(childKind, parentKind string) bool {
	for _, fi := range nt.reverseFields[childKind] {
		if fi.parentKind == parentKind && fi.required && !fi.multiple {
			return false
		}
	}
	return true
}

// ListTypes returns the child kinds of which parentKind may legally hold
// zero or more, i.e. the "children" record is multiple and not required.
func (nt NodeTypes) ListTypes(parentKind string) []string {
	c, ok := nt.children[parentKind]
	if !ok || !c.Multiple || c.Required {
		return nil
	}
	kinds := make([]string, 0, len(c.Types))
	for _, t := range c.Types {
		kinds = append(kinds, t.Type)
	}
	return kinds
}

// Subtypes returns the transitive closure of concrete kinds that an
// abstract kind can refine to, including kind itself. Unknown kinds
// return a slice containing only kind.
func (nt NodeTypes) Subtypes(kind string) []string {
	if s, ok := nt.subtypesOf[kind]; ok {
		return s
	}
	return []string{kind}
}
