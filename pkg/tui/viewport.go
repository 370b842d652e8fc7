// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package tui

// Overscan is the number of extra lines rendered above and below the
// viewport so small scrolls reuse already-built rows.
const Overscan = 8

// VisibleRange computes the inclusive line index range to render for a
// scroll offset: the lines intersecting the viewport plus the overscan
// margin, clamped to the text. Returns (0, -1) when there is nothing to
// render. Chunk navigation and search both scroll through this one
// primitive.
func VisibleRange(offset, height, overscan, totalLines int) (int, int) {
	if totalLines <= 0 || height <= 0 {
		return 0, -1
	}
	if offset < 0 {
		offset = 0
	}
	if offset > totalLines-1 {
		offset = totalLines - 1
	}
	start := offset - overscan
	if start < 0 {
		start = 0
	}
	end := offset + height - 1 + overscan
	if end > totalLines-1 {
		end = totalLines - 1
	}
	return start, end
}

// clampOffset keeps a scroll offset within [0, totalLines-height].
func clampOffset(offset, height, totalLines int) int {
	max := totalLines - height
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// scrollTo returns the offset that puts the given absolute line near the top
// of the viewport, with a small margin of context above it.
func scrollTo(line, height, totalLines int) int {
	return clampOffset(line-2, height, totalLines)
}
