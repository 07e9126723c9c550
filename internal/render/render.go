// Copyright (c) 2024 The treereduce developers

// Package render implements the external renderer collaborator spec.md §6
// describes: given an Original and a committed Edits, walk the tree in
// pre-order and emit either the original text, an omission, or a
// replacement at each node.
package render

import (
	"github.com/quillparse/treereduce/internal/edits"
	"github.com/quillparse/treereduce/internal/tree"
)

// Render walks t in pre-order starting at root and writes the edited
// program text for the given Edits. It never fails on edits that would
// leave the output grammatically invalid — that's explicitly out of scope
// (spec.md §1 Non-goals): the renderer only rewrites bytes.
func Render(t tree.Tree, text []byte, e edits.Edits) []byte {
	out := make([]byte, 0, len(text)/2)
	out = renderNode(t, text, e, t.Root(), out)
	return out
}

func renderNode(t tree.Tree, text []byte, e edits.Edits, id tree.NodeID, out []byte) []byte {
	if e.ShouldOmit(id) {
		return out
	}
	if alt, ok := e.ShouldReplace(id); ok {
		return append(out, alt...)
	}

	start, end := t.Range(id)
	children := t.Children(id)
	if len(children) == 0 {
		return append(out, text[start:end]...)
	}

	cursor := start
	for _, child := range children {
		cstart, cend := t.Range(child)
		if cstart > cursor {
			out = append(out, text[cursor:cstart]...)
		}
		out = renderNode(t, text, e, child, out)
		if cend > cursor {
			cursor = cend
		}
	}
	if cursor < end {
		out = append(out, text[cursor:end]...)
	}
	return out
}

// Changed reports whether rendering e against t/text would differ from the
// identity rendering (i.e. whether e has any effective edit at all).
func Changed(e edits.Edits) bool {
	return e.Len() > 0
}
