// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package chunk_test

import (
	"math/rand"
	"testing"

	"github.com/context-pack/ctxpack/pkg/chunk"
)

// TestPlanSingleChunk verifies that a text under the budget yields exactly
// one chunk covering everything.
func TestPlanSingleChunk(t *testing.T) {
	cfg := chunk.Config{MaxTokensPerChunk: 1000, Strategy: chunk.StrategyFixed}
	plan := chunk.Plan(1000, 1000, cfg)

	if len(plan) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(plan))
	}
	d := plan[0]
	if d.StartLine != 0 || d.EndLine != 999 {
		t.Errorf("Expected range [0, 999], got [%d, %d]", d.StartLine, d.EndLine)
	}
	if d.TokenCount != 1000 {
		t.Errorf("Expected 1000 tokens, got %d", d.TokenCount)
	}
}

// TestPlanProportionalSplit verifies the three-way split: 2500 tokens under a
// 1000 budget gives chunks of 834, 834 and 832 tokens.
func TestPlanProportionalSplit(t *testing.T) {
	cfg := chunk.Config{MaxTokensPerChunk: 1000, Strategy: chunk.StrategyFixed}
	plan := chunk.Plan(2500, 300, cfg)

	if len(plan) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(plan))
	}
	wantTokens := []int{834, 834, 832}
	for i, d := range plan {
		if d.TokenCount != wantTokens[i] {
			t.Errorf("Chunk %d: expected %d tokens, got %d", i, wantTokens[i], d.TokenCount)
		}
	}
}

// TestPlanLineRanges verifies the line partition: 100 lines over 3 chunks
// gives [0,33], [34,67], [68,99].
func TestPlanLineRanges(t *testing.T) {
	cfg := chunk.Config{MaxTokensPerChunk: 1000, Strategy: chunk.StrategyFixed}
	plan := chunk.Plan(2500, 100, cfg)

	if len(plan) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(plan))
	}
	wantRanges := [][2]int{{0, 33}, {34, 67}, {68, 99}}
	for i, d := range plan {
		if d.StartLine != wantRanges[i][0] || d.EndLine != wantRanges[i][1] {
			t.Errorf("Chunk %d: expected range %v, got [%d, %d]",
				i, wantRanges[i], d.StartLine, d.EndLine)
		}
	}
}

// TestPlanInvalidInput verifies that bad inputs degrade to an empty plan
// rather than an error.
func TestPlanInvalidInput(t *testing.T) {
	valid := chunk.Config{MaxTokensPerChunk: 1000}

	cases := []struct {
		name   string
		tokens int
		lines  int
		cfg    chunk.Config
	}{
		{"zero tokens", 0, 100, valid},
		{"zero lines", 100, 0, valid},
		{"negative tokens", -5, 100, valid},
		{"zero budget", 100, 100, chunk.Config{MaxTokensPerChunk: 0}},
		{"negative overlap", 100, 100, chunk.Config{MaxTokensPerChunk: 10, OverlapTokens: -1}},
	}
	for _, tc := range cases {
		if plan := chunk.Plan(tc.tokens, tc.lines, tc.cfg); len(plan) != 0 {
			t.Errorf("%s: expected empty plan, got %d chunks", tc.name, len(plan))
		}
	}
}

// TestPlanMoreChunksThanLines covers the degenerate case where the token
// total demands more chunks than there are lines: the plan shortens but the
// token sum is still conserved.
func TestPlanMoreChunksThanLines(t *testing.T) {
	cfg := chunk.Config{MaxTokensPerChunk: 1000}
	plan := chunk.Plan(5000, 3, cfg)

	if len(plan) != 3 {
		t.Fatalf("Expected plan capped at 3 chunks, got %d", len(plan))
	}
	sum := 0
	for _, d := range plan {
		sum += d.TokenCount
	}
	if sum != 5000 {
		t.Errorf("Expected token sum 5000, got %d", sum)
	}
	if plan[len(plan)-1].EndLine != 2 {
		t.Errorf("Expected last chunk to end at line 2, got %d", plan[len(plan)-1].EndLine)
	}
}

// TestPlanInvariants fuzzes random inputs and checks the structural
// invariants: full coverage without gaps or overlap, monotonically increasing
// ranges, and exact token conservation.
func TestPlanInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		tokens := 1 + rng.Intn(200000)
		lines := 1 + rng.Intn(20000)
		cfg := chunk.Config{MaxTokensPerChunk: 1 + rng.Intn(30000)}

		plan := chunk.Plan(tokens, lines, cfg)
		if len(plan) == 0 {
			t.Fatalf("tokens=%d lines=%d max=%d: unexpected empty plan",
				tokens, lines, cfg.MaxTokensPerChunk)
		}

		if plan[0].StartLine != 0 {
			t.Fatalf("First chunk starts at %d, want 0", plan[0].StartLine)
		}
		if last := plan[len(plan)-1]; last.EndLine != lines-1 {
			t.Fatalf("Last chunk ends at %d, want %d", last.EndLine, lines-1)
		}

		sum := 0
		for j, d := range plan {
			sum += d.TokenCount
			if d.StartLine > d.EndLine {
				t.Fatalf("Chunk %d has inverted range [%d, %d]", j, d.StartLine, d.EndLine)
			}
			if j > 0 && d.StartLine != plan[j-1].EndLine+1 {
				t.Fatalf("Chunk %d starts at %d, previous ended at %d",
					j, d.StartLine, plan[j-1].EndLine)
			}
		}
		if sum != tokens {
			t.Fatalf("tokens=%d lines=%d max=%d: token sum %d != %d",
				tokens, lines, cfg.MaxTokensPerChunk, sum, tokens)
		}
	}
}

// TestBoundaries verifies the marker set: start lines of every chunk after
// the first.
func TestBoundaries(t *testing.T) {
	cfg := chunk.Config{MaxTokensPerChunk: 1000}
	plan := chunk.Plan(2500, 100, cfg)

	b := chunk.Boundaries(plan)
	if len(b) != 2 {
		t.Fatalf("Expected 2 boundaries, got %d", len(b))
	}
	for _, line := range []int{34, 68} {
		if _, ok := b[line]; !ok {
			t.Errorf("Expected boundary at line %d", line)
		}
	}
	if _, ok := b[0]; ok {
		t.Error("Line 0 must never be a boundary")
	}
}

// TestParseStrategy verifies strategy parsing falls back to fixed.
func TestParseStrategy(t *testing.T) {
	cases := map[string]chunk.Strategy{
		"fixed":    chunk.StrategyFixed,
		"semantic": chunk.StrategySemantic,
		"ADAPTIVE": chunk.StrategyAdaptive,
		"bogus":    chunk.StrategyFixed,
		"":         chunk.StrategyFixed,
	}
	for in, want := range cases {
		if got := chunk.ParseStrategy(in); got != want {
			t.Errorf("ParseStrategy(%q): expected %q, got %q", in, want, got)
		}
	}
}
