// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package node_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/context-pack/ctxpack/pkg/config"
	"github.com/context-pack/ctxpack/pkg/node"
	"github.com/context-pack/ctxpack/pkg/observability"
)

// writeProject lays out a project with a .gitignore on disk.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		".gitignore":          "*.log\nbuild/\n",
		"main.go":             "package main\n",
		"debug.log":           "noise\n",
		"build/out.bin":       "binary\n",
		"src/app.go":          "package src\n",
		"node_modules/dep.js": "module.exports = {}\n",
		".git/config":         "[core]\n",
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
	return dir
}

// TestScanAppliesGitignore verifies .gitignore matches mark nodes without
// removing them, and ignored directories are not descended into.
func TestScanAppliesGitignore(t *testing.T) {
	dir := writeProject(t)
	s := node.NewScanner(observability.NewNop(), config.IgnoreConfig{})

	tree, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	logNode, ok := tree.Lookup("debug.log")
	if !ok {
		t.Fatal("Expected debug.log node to exist")
	}
	if !logNode.IsGitignored {
		t.Error("Expected debug.log to be gitignored")
	}

	buildNode, ok := tree.Lookup("build")
	if !ok {
		t.Fatal("Expected build dir node to exist")
	}
	if !buildNode.IsGitignored {
		t.Error("Expected build/ to be gitignored")
	}
	if len(buildNode.Children) != 0 {
		t.Error("Expected ignored directory not to be descended into")
	}
	if _, ok := tree.Lookup("build/out.bin"); ok {
		t.Error("Expected contents of ignored directory to be absent")
	}
}

// TestScanAppliesCustomRules verifies the custom rule mechanism marks nodes
// independently of .gitignore.
func TestScanAppliesCustomRules(t *testing.T) {
	dir := writeProject(t)
	s := node.NewScanner(observability.NewNop(), config.IgnoreConfig{
		CustomRules: []string{"node_modules/"},
	})

	tree, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	nm, ok := tree.Lookup("node_modules")
	if !ok {
		t.Fatal("Expected node_modules node to exist")
	}
	if !nm.IsCustomIgnored {
		t.Error("Expected node_modules to be custom-ignored")
	}
	if nm.IsGitignored {
		t.Error("Expected node_modules not to be gitignored")
	}
}

// TestScanDisabledGitignore verifies that turning the mechanism off leaves
// nodes unmarked.
func TestScanDisabledGitignore(t *testing.T) {
	dir := writeProject(t)
	off := false
	s := node.NewScanner(observability.NewNop(), config.IgnoreConfig{UseGitignore: &off})

	tree, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	n, ok := tree.Lookup("debug.log")
	if !ok {
		t.Fatal("Expected debug.log node to exist")
	}
	if n.IsGitignored {
		t.Error("Expected no gitignore marking when disabled")
	}
}

// TestScanSkipsGitDir verifies .git never appears in the tree.
func TestScanSkipsGitDir(t *testing.T) {
	dir := writeProject(t)
	s := node.NewScanner(observability.NewNop(), config.IgnoreConfig{})

	tree, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if _, ok := tree.Lookup(".git"); ok {
		t.Error("Expected .git to be skipped")
	}
}

// TestScanOrdering verifies directories sort before files, names
// case-insensitively.
func TestScanOrdering(t *testing.T) {
	dir := writeProject(t)
	s := node.NewScanner(observability.NewNop(), config.IgnoreConfig{})

	tree, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	children := tree.Root().Children
	sawFile := false
	for _, c := range children {
		if !c.IsDir {
			sawFile = true
		} else if sawFile {
			t.Fatalf("Directory %q sorted after a file", c.Name)
		}
	}
}

// TestScanCancellation verifies a cancelled context aborts the walk.
func TestScanCancellation(t *testing.T) {
	dir := writeProject(t)
	s := node.NewScanner(observability.NewNop(), config.IgnoreConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Scan(ctx, dir); err == nil {
		t.Error("Expected cancellation error")
	}
}

// TestTreeLookupAndAbsPath covers path indexing and the abs path mapping.
func TestTreeLookupAndAbsPath(t *testing.T) {
	dir := writeProject(t)
	s := node.NewScanner(observability.NewNop(), config.IgnoreConfig{})

	tree, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	n, ok := tree.Lookup("src/app.go")
	if !ok {
		t.Fatal("Expected src/app.go to resolve")
	}
	if n.ParentPath != "src" {
		t.Errorf("Expected parent 'src', got %q", n.ParentPath)
	}
	if got, want := tree.AbsPath("src/app.go"), filepath.Join(dir, "src", "app.go"); got != want {
		t.Errorf("Expected abs path %q, got %q", want, got)
	}
	if tree.AbsPath(node.RootPath) != tree.RootDir() {
		t.Errorf("Expected root abs path to be the root dir")
	}
}
