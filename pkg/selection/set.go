// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package selection

import "sort"

// Set holds the explicitly selected paths: leaf files, plus directories that
// have no selectable leaves and therefore carry their own membership.
// Mutation happens only through the Engine so the ignored-exclusion invariant
// cannot be bypassed.
type Set struct {
	members map[string]struct{}
}

// NewSet creates an empty selection set.
func NewSet() *Set {
	return &Set{members: make(map[string]struct{})}
}

// Contains reports whether path is explicitly selected.
func (s *Set) Contains(path string) bool {
	_, ok := s.members[path]
	return ok
}

// Len returns the number of explicitly selected paths.
func (s *Set) Len() int {
	return len(s.members)
}

// Paths returns a sorted snapshot of the selected paths.
func (s *Set) Paths() []string {
	out := make([]string, 0, len(s.members))
	for p := range s.members {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// add inserts path and reports whether the set changed.
func (s *Set) add(path string) bool {
	if _, ok := s.members[path]; ok {
		return false
	}
	s.members[path] = struct{}{}
	return true
}

// remove deletes path and reports whether the set changed.
func (s *Set) remove(path string) bool {
	if _, ok := s.members[path]; !ok {
		return false
	}
	delete(s.members, path)
	return true
}

// clear empties the set and reports whether it changed.
func (s *Set) clear() bool {
	if len(s.members) == 0 {
		return false
	}
	s.members = make(map[string]struct{})
	return true
}
