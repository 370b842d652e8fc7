// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package chunk

// Navigator carries the cursor and copied-set state alongside a chunk plan.
// The cursor is 1-based and clamped to [1, len(plan)]; an empty plan means
// "nothing to navigate" and the cursor reads 0.
type Navigator struct {
	plan    []Descriptor
	current int
	copied  map[int]struct{}
}

// NewNavigator creates a navigator positioned on the first chunk.
func NewNavigator(plan []Descriptor) *Navigator {
	n := &Navigator{copied: make(map[int]struct{})}
	n.reset(plan)
	return n
}

func (n *Navigator) reset(plan []Descriptor) {
	n.plan = plan
	n.copied = make(map[int]struct{})
	if len(plan) > 0 {
		n.current = 1
	} else {
		n.current = 0
	}
}

// Rebuild replaces the plan. The cursor and copied-set survive only when the
// chunk count is unchanged; otherwise both reset. This is the conservative
// behavior for text edits that change the chunk count.
func (n *Navigator) Rebuild(plan []Descriptor) {
	if len(plan) == len(n.plan) {
		n.plan = plan
		return
	}
	n.reset(plan)
}

// Plan returns the current descriptor sequence.
func (n *Navigator) Plan() []Descriptor {
	return n.plan
}

// Len returns the number of chunks.
func (n *Navigator) Len() int {
	return len(n.plan)
}

// Current returns the 1-based cursor, 0 when there are no chunks.
func (n *Navigator) Current() int {
	return n.current
}

// CurrentDescriptor returns the descriptor under the cursor.
func (n *Navigator) CurrentDescriptor() (Descriptor, bool) {
	if n.current < 1 || n.current > len(n.plan) {
		return Descriptor{}, false
	}
	return n.plan[n.current-1], true
}

// Next moves the cursor forward one chunk, saturating at the last.
func (n *Navigator) Next() {
	if n.current > 0 && n.current < len(n.plan) {
		n.current++
	}
}

// Prev moves the cursor back one chunk, saturating at the first.
func (n *Navigator) Prev() {
	if n.current > 1 {
		n.current--
	}
}

// JumpTo moves the cursor to the given 1-based index, clamped to bounds.
func (n *Navigator) JumpTo(index int) {
	if len(n.plan) == 0 {
		return
	}
	if index < 1 {
		index = 1
	}
	if index > len(n.plan) {
		index = len(n.plan)
	}
	n.current = index
}

// MarkCopied records that the chunk at the 1-based index was copied. With
// autoAdvance the cursor moves to the next chunk unless already on the last,
// giving the UI its "copy, auto move to next" loop.
func (n *Navigator) MarkCopied(index int, autoAdvance bool) {
	if index < 1 || index > len(n.plan) {
		return
	}
	n.copied[index] = struct{}{}
	if autoAdvance && n.current < len(n.plan) {
		n.current++
	}
}

// Copied reports whether the chunk at the 1-based index was copied.
func (n *Navigator) Copied(index int) bool {
	_, ok := n.copied[index]
	return ok
}

// CopiedCount returns how many distinct chunks have been copied.
func (n *Navigator) CopiedCount() int {
	return len(n.copied)
}
