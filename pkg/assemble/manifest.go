// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package assemble

import (
	"sort"
	"strings"
)

// TreeManifest renders the selected paths as an ASCII tree, placed at the top
// of the assembled context so the model sees the project shape before the
// file contents.
func TreeManifest(paths []string) string {
	type treeNode struct {
		name     string
		children map[string]*treeNode
	}
	root := &treeNode{name: ".", children: map[string]*treeNode{}}

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	for _, p := range sorted {
		parts := strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
		cur := root
		for _, part := range parts {
			if part == "" || part == "." {
				continue
			}
			if cur.children[part] == nil {
				cur.children[part] = &treeNode{name: part, children: map[string]*treeNode{}}
			}
			cur = cur.children[part]
		}
	}

	var b strings.Builder
	var walk func(n *treeNode, prefix string, isLast bool)
	walk = func(n *treeNode, prefix string, isLast bool) {
		if n != root {
			if isLast {
				b.WriteString(prefix + "└─ " + n.name + "\n")
				prefix += "   "
			} else {
				b.WriteString(prefix + "├─ " + n.name + "\n")
				prefix += "│  "
			}
		}
		keys := make([]string, 0, len(n.children))
		for k := range n.children {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			walk(n.children[k], prefix, i == len(keys)-1)
		}
	}
	walk(root, "", true)
	return b.String()
}
