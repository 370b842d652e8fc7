// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package node provides the read-only file tree that both engines consume.
//
// Nodes are keyed by their root-relative, slash-separated path. The tree owns
// the parent→children edges; a path→node map provides lookup so that walks
// never need parent pointers on the nodes themselves.
package node

import (
	"path/filepath"
)

// RootPath is the path of the synthetic root node covering the whole project.
const RootPath = "."

// FileNode represents a file or directory in the project tree.
type FileNode struct {
	Name       string
	Path       string // root-relative, slash-separated; unique key
	ParentPath string // "" for the root node
	IsDir      bool
	Size       int64
	Children   []*FileNode

	// The two ignore mechanisms are independent; each node records which
	// one(s) fired. Engines only consume the combined IsIgnored().
	IsGitignored    bool
	IsCustomIgnored bool
}

// IsIgnored reports whether either ignore mechanism excluded this node.
func (n *FileNode) IsIgnored() bool {
	return n.IsGitignored || n.IsCustomIgnored
}

// IsLeaf reports whether this node is a selectable file.
func (n *FileNode) IsLeaf() bool {
	return !n.IsDir
}

// Tree is an immutable-shape file tree with path lookup.
type Tree struct {
	root    *FileNode
	rootDir string
	nodes   map[string]*FileNode
}

// NewTree indexes the given root node and fills in parent back-references.
// rootDir is the absolute directory the tree was scanned from.
func NewTree(root *FileNode, rootDir string) *Tree {
	t := &Tree{
		root:    root,
		rootDir: rootDir,
		nodes:   make(map[string]*FileNode),
	}
	var index func(n *FileNode, parent string)
	index = func(n *FileNode, parent string) {
		n.ParentPath = parent
		t.nodes[n.Path] = n
		for _, c := range n.Children {
			index(c, n.Path)
		}
	}
	if root != nil {
		index(root, "")
	}
	return t
}

// Root returns the synthetic root node.
func (t *Tree) Root() *FileNode {
	return t.root
}

// RootDir returns the absolute directory this tree was scanned from.
func (t *Tree) RootDir() string {
	return t.rootDir
}

// Lookup resolves a node by its root-relative path.
func (t *Tree) Lookup(path string) (*FileNode, bool) {
	n, ok := t.nodes[path]
	return n, ok
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// AbsPath converts a root-relative node path to an absolute filesystem path.
func (t *Tree) AbsPath(path string) string {
	if path == RootPath {
		return t.rootDir
	}
	return filepath.Join(t.rootDir, filepath.FromSlash(path))
}

// Walk visits nodes in pre-order starting at the root. The callback returns
// whether to descend into the node's children.
func (t *Tree) Walk(fn func(n *FileNode) bool) {
	if t.root == nil {
		return
	}
	t.WalkFrom(t.root, fn)
}

// WalkFrom visits the subtree rooted at n in pre-order.
func (t *Tree) WalkFrom(n *FileNode, fn func(n *FileNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		t.WalkFrom(c, fn)
	}
}
