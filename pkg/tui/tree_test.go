// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package tui

import (
	"strings"
	"testing"

	"github.com/context-pack/ctxpack/pkg/node"
	"github.com/context-pack/ctxpack/pkg/selection"
)

func uiTestTree() *node.Tree {
	root := &node.FileNode{Name: ".", Path: node.RootPath, IsDir: true, Children: []*node.FileNode{
		{Name: "src", Path: "src", IsDir: true, Children: []*node.FileNode{
			{Name: "handler.go", Path: "src/handler.go"},
			{Name: "router.go", Path: "src/router.go"},
		}},
		{Name: "vendor", Path: "vendor", IsDir: true, IsCustomIgnored: true},
		{Name: "readme.md", Path: "readme.md"},
	}}
	return node.NewTree(root, "/tmp/ui")
}

// TestFlattenRowsRespectsExpansion verifies collapsed directories hide their
// children while ignored nodes stay visible.
func TestFlattenRowsRespectsExpansion(t *testing.T) {
	tree := uiTestTree()

	rows := flattenRows(tree, map[string]bool{})
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows collapsed, got %d", len(rows))
	}

	rows = flattenRows(tree, map[string]bool{"src": true})
	if len(rows) != 5 {
		t.Fatalf("Expected 5 rows with src expanded, got %d", len(rows))
	}
	if rows[1].n.Path != "src/handler.go" || rows[1].depth != 1 {
		t.Errorf("Expected src/handler.go at depth 1, got %q depth %d", rows[1].n.Path, rows[1].depth)
	}

	found := false
	for _, r := range rows {
		if r.n.Path == "vendor" {
			found = true
		}
	}
	if !found {
		t.Error("Expected ignored directory to stay visible")
	}
}

// TestFilterRows verifies fuzzy filtering matches leaves only and skips
// ignored paths.
func TestFilterRows(t *testing.T) {
	tree := uiTestTree()

	rows := filterRows(tree, "handler")
	if len(rows) != 1 || rows[0].n.Path != "src/handler.go" {
		t.Fatalf("Expected single handler match, got %v", rows)
	}

	rows = filterRows(tree, "go")
	if len(rows) != 2 {
		t.Errorf("Expected 2 matches for 'go', got %d", len(rows))
	}
	for _, r := range rows {
		if r.n.IsDir || r.n.IsIgnored() {
			t.Errorf("Expected only non-ignored leaves, got %q", r.n.Path)
		}
	}
}

// TestRenderRow verifies the checkbox and directory affordances.
func TestRenderRow(t *testing.T) {
	tree := uiTestTree()
	src, _ := tree.Lookup("src")
	file, _ := tree.Lookup("readme.md")

	line := renderRow(row{n: src, depth: 0}, selection.Partial, false)
	if !strings.HasPrefix(line, "[~] ▸ ") || !strings.HasSuffix(line, "src/") {
		t.Errorf("Unexpected directory row: %q", line)
	}

	line = renderRow(row{n: src, depth: 0}, selection.On, true)
	if !strings.HasPrefix(line, "[x] ▾ ") {
		t.Errorf("Unexpected expanded row: %q", line)
	}

	line = renderRow(row{n: file, depth: 2}, selection.Off, false)
	if line != "    [ ] readme.md" {
		t.Errorf("Unexpected file row: %q", line)
	}
}
