// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package chunk_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/context-pack/ctxpack/pkg/chunk"
	"github.com/context-pack/ctxpack/pkg/errors"
	"github.com/context-pack/ctxpack/pkg/observability"
)

// assembledText builds a fake assembled context with n files of the given
// content size.
func assembledText(n, contentRunes int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "--- File: src/file%d.go ---\n", i)
		b.WriteString(strings.Repeat("x", contentRunes))
		b.WriteString("\n\n")
	}
	return b.String()
}

// TestSplitSingleChunk verifies text under the budget comes back whole.
func TestSplitSingleChunk(t *testing.T) {
	e := chunk.NewExporter(observability.NewNop())
	text := assembledText(2, 100)

	chunks, err := e.Split(text, chunk.ExportConfig{
		MaxTokensPerChunk: 1000,
		Strategy:          chunk.ExportSmart,
	})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Error("Expected the single chunk to be the unmodified text")
	}
}

// TestSplitByFileHeaders verifies file-based splitting keeps files whole and
// under the budget.
func TestSplitByFileHeaders(t *testing.T) {
	e := chunk.NewExporter(observability.NewNop())
	// 10 files, each ~110 tokens; budget of 300 packs 2 per chunk.
	text := assembledText(10, 400)

	chunks, err := e.Split(text, chunk.ExportConfig{
		MaxTokensPerChunk: 300,
		Strategy:          chunk.ExportFile,
	})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if chunk.ApproxTokens(c) > 300 {
			t.Errorf("Chunk %d exceeds budget: %d tokens", i, chunk.ApproxTokens(c))
		}
		if !strings.HasPrefix(c, "--- File: ") {
			t.Errorf("Chunk %d does not start at a file boundary", i)
		}
	}
}

// TestSplitByTokenCountOverlap verifies token splitting shares overlap
// content between consecutive chunks and always makes forward progress.
func TestSplitByTokenCountOverlap(t *testing.T) {
	e := chunk.NewExporter(observability.NewNop())
	text := strings.Repeat("abcd", 1000) // 1000 tokens

	chunks, err := e.Split(text, chunk.ExportConfig{
		MaxTokensPerChunk: 300,
		OverlapTokens:     50,
		Strategy:          chunk.ExportToken,
	})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-200:] // 50 tokens * 4 runes
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("Chunk %d does not start with the previous chunk's overlap", i)
		}
	}
}

// TestSplitInvalidConfig verifies the validation errors.
func TestSplitInvalidConfig(t *testing.T) {
	e := chunk.NewExporter(observability.NewNop())
	text := assembledText(5, 4000)

	if _, err := e.Split(text, chunk.ExportConfig{MaxTokensPerChunk: 0}); !errors.IsType(err, errors.ErrInvalidConfig) {
		t.Errorf("Expected InvalidConfig for zero budget, got %v", err)
	}

	_, err := e.Split(text, chunk.ExportConfig{
		MaxTokensPerChunk: 100,
		OverlapTokens:     100,
		Strategy:          chunk.ExportToken,
	})
	if !errors.IsType(err, errors.ErrInvalidConfig) {
		t.Errorf("Expected InvalidConfig for overlap >= budget, got %v", err)
	}

	_, err = e.Split(text, chunk.ExportConfig{MaxTokensPerChunk: 100, Strategy: "bogus"})
	if !errors.IsType(err, errors.ErrInvalidConfig) {
		t.Errorf("Expected InvalidConfig for unknown strategy, got %v", err)
	}
}

// TestSplitSmartFallsBack verifies smart splitting falls back to token
// splitting when one file exceeds the budget on its own.
func TestSplitSmartFallsBack(t *testing.T) {
	e := chunk.NewExporter(observability.NewNop())
	// One file of ~1000 tokens against a 200 token budget.
	text := assembledText(1, 4000)

	chunks, err := e.Split(text, chunk.ExportConfig{
		MaxTokensPerChunk: 200,
		OverlapTokens:     20,
		Strategy:          chunk.ExportSmart,
	})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Errorf("Expected the oversized file to be token-split, got %d chunks", len(chunks))
	}
}

// TestExtract verifies chunk text extraction is a literal line join.
func TestExtract(t *testing.T) {
	lines := chunk.Lines("l0\nl1\nl2\nl3\nl4")

	got := chunk.Extract(lines, chunk.Descriptor{StartLine: 1, EndLine: 3})
	if got != "l1\nl2\nl3" {
		t.Errorf("Expected lines 1-3, got %q", got)
	}

	// Out-of-range descriptors clamp instead of panicking.
	got = chunk.Extract(lines, chunk.Descriptor{StartLine: -2, EndLine: 99})
	if got != "l0\nl1\nl2\nl3\nl4" {
		t.Errorf("Expected full text on clamped range, got %q", got)
	}

	if got := chunk.Extract(lines, chunk.Descriptor{StartLine: 4, EndLine: 2}); got != "" {
		t.Errorf("Expected empty string for inverted range, got %q", got)
	}
}

// TestExtractAll verifies the banner-joined merge of every chunk.
func TestExtractAll(t *testing.T) {
	lines := chunk.Lines("l0\nl1\nl2\nl3")
	plan := []chunk.Descriptor{
		{Index: 0, StartLine: 0, EndLine: 1},
		{Index: 1, StartLine: 2, EndLine: 3},
	}

	got := chunk.ExtractAll(lines, plan)
	want := "=== CHUNK 1 ===\nl0\nl1\n\n=== CHUNK 2 ===\nl2\nl3"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
