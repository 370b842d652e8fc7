// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package selection implements the hierarchical selection engine: the single
// source of truth for which leaf files are included in the context, with
// derived directory tri-state and cascading bulk toggles.
package selection

// State is the derived tri-state of a node. It is never stored; it is
// recomputed from the selection set and the tree shape.
type State int

const (
	// Off means no selectable leaf under the node is selected.
	Off State = iota
	// On means every selectable leaf under the node is selected.
	On
	// Partial means some but not all selectable leaves are selected, or a
	// descendant directory is itself partial.
	Partial
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case On:
		return "on"
	case Partial:
		return "partial"
	default:
		return "off"
	}
}
