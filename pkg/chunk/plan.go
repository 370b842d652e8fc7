// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package chunk implements the context chunking engine: it partitions an
// assembled text with known line and token totals into a bounded sequence of
// navigable chunks that individually fit under a token budget, and tracks
// per-chunk copy state for the manual multi-paste workflow.
//
// Two different notions of "chunk" coexist deliberately. Descriptors are
// non-overlapping line ranges used for on-screen navigation; the Exporter in
// export.go produces overlap-aware text chunks for clipboard export. Keeping
// them separate stops overlap semantics from leaking into the navigation
// coverage invariant.
package chunk

import "strings"

// Strategy selects the chunk planning algorithm.
type Strategy string

const (
	// StrategyFixed partitions proportionally by line count.
	StrategyFixed Strategy = "fixed"
	// StrategySemantic is accepted but has no distinct algorithm; it
	// behaves as StrategyFixed until a boundary-aware algorithm is
	// specified.
	StrategySemantic Strategy = "semantic"
	// StrategyAdaptive is accepted but behaves as StrategyFixed.
	StrategyAdaptive Strategy = "adaptive"
)

// ParseStrategy maps a config string to a Strategy, defaulting to fixed.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToLower(s)) {
	case StrategySemantic:
		return StrategySemantic
	case StrategyAdaptive:
		return StrategyAdaptive
	default:
		return StrategyFixed
	}
}

// Config holds the chunk planning settings.
type Config struct {
	MaxTokensPerChunk int
	OverlapTokens     int
	Strategy          Strategy
}

// Valid reports whether the config can produce a non-empty plan.
func (c Config) Valid() bool {
	return c.MaxTokensPerChunk > 0 && c.OverlapTokens >= 0
}

// Descriptor describes one navigation chunk. Line ranges are inclusive,
// contiguous and non-overlapping across the plan.
type Descriptor struct {
	Index      int
	StartLine  int
	EndLine    int
	TokenCount int
}

// Plan partitions totalTokens/totalLines into chunk descriptors.
//
// Token counts are not recomputed per line; tokens are assumed uniformly
// distributed across lines and partitioned proportionally. Every chunk gets
// ceil(totalTokens/numChunks) tokens except the last, which takes the
// remainder so the per-chunk sum equals totalTokens exactly.
//
// Invalid input (non-positive budget, lines or tokens) yields an empty plan,
// never an error: a half-initialized caller degrades to "no chunks".
func Plan(totalTokens, totalLines int, cfg Config) []Descriptor {
	if !cfg.Valid() || totalTokens <= 0 || totalLines <= 0 {
		return nil
	}

	if totalTokens <= cfg.MaxTokensPerChunk {
		return []Descriptor{{
			Index:      0,
			StartLine:  0,
			EndLine:    totalLines - 1,
			TokenCount: totalTokens,
		}}
	}

	numChunks := ceilDiv(totalTokens, cfg.MaxTokensPerChunk)
	linesPerChunk := ceilDiv(totalLines, numChunks)
	tokensPerChunk := ceilDiv(totalTokens, numChunks)

	plan := make([]Descriptor, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * linesPerChunk
		if start > totalLines-1 {
			break
		}
		end := (i+1)*linesPerChunk - 1
		if end > totalLines-1 {
			end = totalLines - 1
		}
		tokens := tokensPerChunk
		if i == numChunks-1 {
			tokens = totalTokens - tokensPerChunk*(numChunks-1)
		}
		plan = append(plan, Descriptor{
			Index:      i,
			StartLine:  start,
			EndLine:    end,
			TokenCount: tokens,
		})
	}

	// More chunks than lines: the loop ran out of lines early. Fold the
	// undistributed remainder into the final chunk so token conservation
	// holds even for degenerate inputs.
	if len(plan) > 0 && len(plan) < numChunks {
		assigned := 0
		for _, d := range plan {
			assigned += d.TokenCount
		}
		plan[len(plan)-1].TokenCount += totalTokens - assigned
	}

	return plan
}

// Boundaries returns the start lines of every chunk after the first. The
// line renderer draws a marker immediately above each of these lines.
func Boundaries(plan []Descriptor) map[int]struct{} {
	out := make(map[int]struct{}, len(plan))
	for _, d := range plan {
		if d.Index == 0 {
			continue
		}
		out[d.StartLine] = struct{}{}
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
