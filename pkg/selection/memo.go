// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package selection

import (
	"sync"

	"github.com/context-pack/ctxpack/pkg/node"
)

// Memo caches derived tri-states keyed by (path, engine generation). It
// lives outside the engine on purpose: the engine stays a pure function of
// the tree and the set, so correctness never depends on invalidation timing.
// A render pass asks the memo instead of the engine and pays the subtree
// walk at most once per node per generation.
type Memo struct {
	mu     sync.RWMutex
	gen    uint64
	states map[string]State
}

// NewMemo creates an empty memo.
func NewMemo() *Memo {
	return &Memo{states: make(map[string]State)}
}

// State returns the memoized tri-state of n, recomputing through the engine
// when the generation moved or the path is not cached yet.
func (m *Memo) State(e *Engine, n *node.FileNode) State {
	gen := e.Generation()

	m.mu.RLock()
	if m.gen == gen {
		if st, ok := m.states[n.Path]; ok {
			m.mu.RUnlock()
			return st
		}
	}
	m.mu.RUnlock()

	st := e.State(n)

	m.mu.Lock()
	if m.gen != gen {
		m.gen = gen
		m.states = make(map[string]State)
	}
	m.states[n.Path] = st
	m.mu.Unlock()
	return st
}
