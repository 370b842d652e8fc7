// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package assemble_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/context-pack/ctxpack/pkg/assemble"
	"github.com/context-pack/ctxpack/pkg/node"
	"github.com/context-pack/ctxpack/pkg/observability"
)

// writeTestProject lays out a small project on disk and returns its tree.
func writeTestProject(t *testing.T) *node.Tree {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"main.go":       "package main\n\nfunc main() {}\n",
		"pkg/util.go":   "package pkg\n",
		"pkg/extra.go":  "package pkg\n\nvar X = 1\n",
		"docs/notes.md": "# notes\n",
	}
	for p, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	root := &node.FileNode{Name: ".", Path: node.RootPath, IsDir: true, Children: []*node.FileNode{
		{Name: "docs", Path: "docs", IsDir: true, Children: []*node.FileNode{
			{Name: "notes.md", Path: "docs/notes.md"},
		}},
		{Name: "pkg", Path: "pkg", IsDir: true, Children: []*node.FileNode{
			{Name: "extra.go", Path: "pkg/extra.go"},
			{Name: "util.go", Path: "pkg/util.go"},
		}},
		{Name: "main.go", Path: "main.go"},
	}}
	return node.NewTree(root, dir)
}

// TestBuild verifies assembly order, headers and the derived totals.
func TestBuild(t *testing.T) {
	tree := writeTestProject(t)
	asm := assemble.New(tree, observability.NewNop(), assemble.Options{})

	out, err := asm.Build(context.Background(), []string{"pkg/util.go", "main.go"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if out.FileCount != 2 {
		t.Errorf("Expected 2 files, got %d", out.FileCount)
	}
	// Paths are sorted, so main.go precedes pkg/util.go.
	mainIdx := strings.Index(out.Text, "--- File: main.go ---")
	utilIdx := strings.Index(out.Text, "--- File: pkg/util.go ---")
	if mainIdx < 0 || utilIdx < 0 {
		t.Fatalf("Expected both file headers, got:\n%s", out.Text)
	}
	if mainIdx > utilIdx {
		t.Error("Expected files in sorted path order")
	}
	if !strings.Contains(out.Text, "func main() {}") {
		t.Error("Expected file content in the output")
	}

	if want := assemble.CountLines(out.Text); out.TotalLines != want {
		t.Errorf("Expected %d total lines, got %d", want, out.TotalLines)
	}
	if want := assemble.EstimateTokens(out.Text); out.TotalTokens != want {
		t.Errorf("Expected %d total tokens, got %d", want, out.TotalTokens)
	}
}

// TestBuildManifest verifies the leading ASCII tree manifest.
func TestBuildManifest(t *testing.T) {
	tree := writeTestProject(t)
	asm := assemble.New(tree, observability.NewNop(), assemble.Options{IncludeManifest: true})

	out, err := asm.Build(context.Background(), []string{"main.go", "pkg/util.go", "pkg/extra.go"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	header := strings.Index(out.Text, "--- File:")
	if header <= 0 {
		t.Fatal("Expected manifest before the first file header")
	}
	manifest := out.Text[:header]
	for _, want := range []string{"├─ main.go", "└─ pkg", "├─ extra.go", "└─ util.go"} {
		if !strings.Contains(manifest, want) {
			t.Errorf("Expected manifest to contain %q, got:\n%s", want, manifest)
		}
	}
}

// TestBuildSkipsUnreadable verifies unreadable files are counted as skipped
// without failing the build.
func TestBuildSkipsUnreadable(t *testing.T) {
	tree := writeTestProject(t)
	asm := assemble.New(tree, observability.NewNop(), assemble.Options{})

	out, err := asm.Build(context.Background(), []string{"main.go", "no/such/file.go"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if out.FileCount != 1 {
		t.Errorf("Expected 1 file, got %d", out.FileCount)
	}
	if out.SkippedFiles != 1 {
		t.Errorf("Expected 1 skipped file, got %d", out.SkippedFiles)
	}
}

// TestBuildCancellation verifies a cancelled context aborts assembly.
func TestBuildCancellation(t *testing.T) {
	tree := writeTestProject(t)
	asm := assemble.New(tree, observability.NewNop(), assemble.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := asm.Build(ctx, []string{"main.go"}); err == nil {
		t.Error("Expected cancellation error")
	}
}

// TestBuildEmptySelection verifies an empty selection yields an empty context.
func TestBuildEmptySelection(t *testing.T) {
	tree := writeTestProject(t)
	asm := assemble.New(tree, observability.NewNop(), assemble.Options{IncludeManifest: true})

	out, err := asm.Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if out.Text != "" {
		t.Errorf("Expected empty text, got %q", out.Text)
	}
	if out.TotalLines != 0 {
		t.Errorf("Expected 0 lines, got %d", out.TotalLines)
	}
}

// TestEstimateTokens verifies the chars/4 plus buffer estimate.
func TestEstimateTokens(t *testing.T) {
	if got := assemble.EstimateTokens(strings.Repeat("a", 400)); got != 200 {
		t.Errorf("Expected 200 tokens for 400 chars, got %d", got)
	}
	if got := assemble.EstimateTokens(""); got != assemble.DefaultTokenBuffer {
		t.Errorf("Expected bare buffer for empty text, got %d", got)
	}
}

// TestCountLines verifies newline counting.
func TestCountLines(t *testing.T) {
	cases := map[string]int{
		"":          0,
		"one":       1,
		"a\nb":      2,
		"a\nb\nc\n": 4,
	}
	for text, want := range cases {
		if got := assemble.CountLines(text); got != want {
			t.Errorf("CountLines(%q): expected %d, got %d", text, want, got)
		}
	}
}
