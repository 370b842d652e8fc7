// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package selection

import (
	"github.com/context-pack/ctxpack/pkg/errors"
	"github.com/context-pack/ctxpack/pkg/node"
)

// Stats summarizes selection progress over a subtree.
type Stats struct {
	Selected int
	Total    int
	Percent  float64
}

// Engine owns the selection set for one tree. All operations are synchronous
// and total: a stale path is a no-op, never a panic, since toggles may arrive
// just after a background refresh removed the node.
type Engine struct {
	tree       *node.Tree
	set        *Set
	generation uint64
}

// NewEngine creates an engine over the given tree with an empty selection.
func NewEngine(tree *node.Tree) *Engine {
	return &Engine{tree: tree, set: NewSet()}
}

// Tree returns the current tree.
func (e *Engine) Tree() *node.Tree {
	return e.tree
}

// Generation increments on every mutation of the set or the tree. External
// memoization layers key on it; the engine itself never caches.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// SetTree swaps in a freshly scanned tree and drops selected paths that no
// longer resolve to existing, non-ignored leaves.
func (e *Engine) SetTree(tree *node.Tree) {
	e.tree = tree
	for _, p := range e.set.Paths() {
		n, ok := tree.Lookup(p)
		if !ok || n.IsIgnored() || (n.IsDir && e.hasSelectableLeaves(n)) {
			e.set.remove(p)
		}
	}
	e.generation++
}

// State derives the tri-state of a node.
//
// Leaves are On iff selected; ignored leaves are never On. Directories vote
// over their non-ignored children: one partial child poisons the parent,
// mixed concrete children read Partial, agreement propagates. A directory
// with no selectable children falls back to its own membership, so an empty
// or fully-ignored directory still shows a definite state.
func (e *Engine) State(n *node.FileNode) State {
	if n.IsLeaf() {
		if !n.IsIgnored() && e.set.Contains(n.Path) {
			return On
		}
		return Off
	}

	voted := false
	allOn, allOff := true, true
	for _, c := range n.Children {
		if c.IsIgnored() {
			continue
		}
		voted = true
		switch e.State(c) {
		case Partial:
			return Partial
		case On:
			allOff = false
		case Off:
			allOn = false
		}
		if !allOn && !allOff {
			return Partial
		}
	}

	if !voted {
		if e.set.Contains(n.Path) {
			return On
		}
		return Off
	}
	if allOn {
		return On
	}
	return Off
}

// StateByPath derives the tri-state for a path, returning NotFound for paths
// absent from the tree.
func (e *Engine) StateByPath(path string) (State, error) {
	n, ok := e.tree.Lookup(path)
	if !ok {
		return Off, errors.NotFound(path)
	}
	return e.State(n), nil
}

// Validate checks whether a selection operation may target path. Callers are
// expected to pre-flight cascades with it; ToggleCascade itself absorbs bad
// targets as no-ops.
func (e *Engine) Validate(path string) error {
	n, ok := e.tree.Lookup(path)
	if !ok {
		return errors.NotFound(path)
	}
	if n.IsIgnored() {
		return errors.IgnoredTarget(path)
	}
	return nil
}

// ToggleCascade applies one toggle decision to the whole subtree at path.
// Target is On unless the subtree currently reads On. Every non-ignored leaf
// descendant (the node itself, if a leaf) is added or removed; ignored leaves
// are never touched. A directory with no selectable leaves is treated as its
// own leaf, matching the State fallback. Returns the number of paths changed;
// unknown or ignored targets change nothing.
func (e *Engine) ToggleCascade(path string) int {
	n, ok := e.tree.Lookup(path)
	if !ok || n.IsIgnored() {
		return 0
	}

	target := e.State(n) != On
	leaves := e.selectableLeaves(n)
	if len(leaves) == 0 && n.IsDir {
		leaves = []string{n.Path}
	}

	changed := 0
	for _, p := range leaves {
		if target {
			if e.set.add(p) {
				changed++
			}
		} else if e.set.remove(p) {
			changed++
		}
	}
	if changed > 0 {
		e.generation++
	}
	return changed
}

// Toggle flips a single leaf. Directories delegate to ToggleCascade. Unlike
// the cascade, an explicit toggle on an ignored or unknown node is surfaced
// as a rejection so the UI can show a disabled affordance.
func (e *Engine) Toggle(path string) error {
	n, ok := e.tree.Lookup(path)
	if !ok {
		return errors.NotFound(path)
	}
	if n.IsIgnored() {
		return errors.IgnoredTarget(path)
	}
	if n.IsDir {
		e.ToggleCascade(path)
		return nil
	}
	if !e.set.remove(path) {
		e.set.add(path)
	}
	e.generation++
	return nil
}

// Clear empties the selection.
func (e *Engine) Clear() {
	if e.set.clear() {
		e.generation++
	}
}

// SelectedPaths returns a sorted snapshot of the selected leaf paths.
func (e *Engine) SelectedPaths() []string {
	return e.set.Paths()
}

// Len returns the number of explicitly selected paths.
func (e *Engine) Len() int {
	return e.set.Len()
}

// Contains reports whether path is explicitly selected.
func (e *Engine) Contains(path string) bool {
	return e.set.Contains(path)
}

// Restore re-inserts persisted paths that still resolve to existing,
// non-ignored leaves, silently dropping the rest. Returns the kept count.
func (e *Engine) Restore(paths []string) int {
	kept := 0
	for _, p := range paths {
		n, ok := e.tree.Lookup(p)
		if !ok || n.IsIgnored() || n.IsDir {
			continue
		}
		if e.set.add(p) {
			kept++
		}
	}
	if kept > 0 {
		e.generation++
	}
	return kept
}

// CountFiles returns the number of non-ignored leaf descendants of n, down
// to maxDepth levels (maxDepth <= 0 means unlimited). Used as a cheap
// pre-flight before cascading over very large subtrees.
func (e *Engine) CountFiles(n *node.FileNode, maxDepth int) int {
	if n == nil || n.IsIgnored() {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	if maxDepth == 1 {
		return 0
	}
	next := maxDepth - 1
	if maxDepth <= 0 {
		next = 0
	}
	count := 0
	for _, c := range n.Children {
		count += e.CountFiles(c, next)
	}
	return count
}

// Stats returns selection progress over the subtree at n.
func (e *Engine) Stats(n *node.FileNode) Stats {
	var st Stats
	for _, p := range e.selectableLeaves(n) {
		st.Total++
		if e.set.Contains(p) {
			st.Selected++
		}
	}
	if st.Total > 0 {
		st.Percent = 100 * float64(st.Selected) / float64(st.Total)
	}
	return st
}

// selectableLeaves collects non-ignored leaf paths under n, skipping ignored
// subtrees entirely.
func (e *Engine) selectableLeaves(n *node.FileNode) []string {
	if n == nil || n.IsIgnored() {
		return nil
	}
	var out []string
	e.tree.WalkFrom(n, func(c *node.FileNode) bool {
		if c.IsIgnored() {
			return false
		}
		if c.IsLeaf() {
			out = append(out, c.Path)
		}
		return true
	})
	return out
}

// hasSelectableLeaves reports whether any non-ignored leaf exists under n.
func (e *Engine) hasSelectableLeaves(n *node.FileNode) bool {
	found := false
	e.tree.WalkFrom(n, func(c *node.FileNode) bool {
		if found || c.IsIgnored() {
			return false
		}
		if c.IsLeaf() {
			found = true
			return false
		}
		return true
	})
	return found
}
