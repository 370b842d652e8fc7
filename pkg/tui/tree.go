// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package tui

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/context-pack/ctxpack/pkg/node"
	"github.com/context-pack/ctxpack/pkg/selection"
)

// row is one visible line of the tree pane.
type row struct {
	n     *node.FileNode
	depth int
}

// flattenRows produces the visible rows for the current expansion state.
// Ignored nodes stay visible (dimmed by the renderer) so the user can see
// what the ignore rules excluded.
func flattenRows(tree *node.Tree, expanded map[string]bool) []row {
	var rows []row
	var walk func(nodes []*node.FileNode, depth int)
	walk = func(nodes []*node.FileNode, depth int) {
		for _, n := range nodes {
			rows = append(rows, row{n: n, depth: depth})
			if n.IsDir && expanded[n.Path] {
				walk(n.Children, depth+1)
			}
		}
	}
	if tree.Root() != nil {
		walk(tree.Root().Children, 0)
	}
	return rows
}

// filterRows ranks all leaf paths against the query and returns matching
// rows as a flat list, best match first.
func filterRows(tree *node.Tree, query string) []row {
	var paths []string
	pathNode := make(map[string]*node.FileNode)
	tree.Walk(func(n *node.FileNode) bool {
		if n.IsLeaf() && !n.IsIgnored() {
			paths = append(paths, n.Path)
			pathNode[n.Path] = n
		}
		return true
	})

	ranks := fuzzy.RankFindFold(query, paths)
	sort.Sort(ranks)

	rows := make([]row, 0, len(ranks))
	for _, r := range ranks {
		rows = append(rows, row{n: pathNode[r.Target], depth: 0})
	}
	return rows
}

// checkbox returns the tri-state marker for a node.
func checkbox(st selection.State) string {
	switch st {
	case selection.On:
		return "[x]"
	case selection.Partial:
		return "[~]"
	default:
		return "[ ]"
	}
}

// renderRow draws one tree row without styling; the caller applies styles.
func renderRow(r row, st selection.State, expanded bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.depth))
	b.WriteString(checkbox(st))
	b.WriteString(" ")
	if r.n.IsDir {
		if expanded {
			b.WriteString("▾ ")
		} else {
			b.WriteString("▸ ")
		}
	}
	b.WriteString(r.n.Name)
	if r.n.IsDir {
		b.WriteString("/")
	}
	return b.String()
}
