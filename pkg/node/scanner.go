// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package node

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/context-pack/ctxpack/pkg/config"
	ctxerrors "github.com/context-pack/ctxpack/pkg/errors"
	"github.com/context-pack/ctxpack/pkg/observability"
)

// Scanner builds a Tree from a project directory, applying the two ignore
// mechanisms: the project's .gitignore and the user's custom rules.
type Scanner struct {
	log       observability.Logger
	ignoreCfg config.IgnoreConfig
}

// NewScanner creates a scanner with the given ignore configuration.
func NewScanner(log observability.Logger, ignoreCfg config.IgnoreConfig) *Scanner {
	return &Scanner{log: log, ignoreCfg: ignoreCfg}
}

// Scan walks dirPath and returns the resulting tree. Ignored directories are
// included as nodes but not descended into; .git is always skipped entirely.
func (s *Scanner) Scan(ctx context.Context, dirPath string) (*Tree, error) {
	absRoot, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, ctxerrors.ScanError("resolving project root", err)
	}

	var gitIgn *gitignore.GitIgnore
	if s.ignoreCfg.GitignoreEnabled() {
		gitignorePath := filepath.Join(absRoot, ".gitignore")
		if _, statErr := os.Stat(gitignorePath); statErr == nil {
			gitIgn, err = gitignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				s.log.Warn("failed to compile .gitignore",
					observability.String("path", gitignorePath), observability.Err(err))
				gitIgn = nil
			}
		}
	}

	var customIgn *gitignore.GitIgnore
	if s.ignoreCfg.CustomRulesEnabled() && len(s.ignoreCfg.CustomRules) > 0 {
		customIgn = gitignore.CompileIgnoreLines(s.ignoreCfg.CustomRules...)
	}

	root := &FileNode{
		Name:  filepath.Base(absRoot),
		Path:  RootPath,
		IsDir: true,
	}
	children, err := s.scanDir(ctx, absRoot, absRoot, gitIgn, customIgn)
	if err != nil {
		return nil, ctxerrors.ScanError("building file tree", err)
	}
	root.Children = children

	tree := NewTree(root, absRoot)
	s.log.Debug("scanned project tree",
		observability.String("root", absRoot), observability.Int("nodes", tree.Len()))
	return tree, nil
}

func (s *Scanner) scanDir(ctx context.Context, currentPath, rootPath string, gitIgn, customIgn *gitignore.GitIgnore) ([]*FileNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(currentPath)
	if err != nil {
		return nil, err
	}

	var nodes []*FileNode
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == ".git" {
			continue
		}

		entryPath := filepath.Join(currentPath, entry.Name())
		relPath, relErr := filepath.Rel(rootPath, entryPath)
		if relErr != nil {
			s.log.Warn("skipping entry without relative path",
				observability.String("path", entryPath), observability.Err(relErr))
			continue
		}
		relPath = filepath.ToSlash(relPath)

		// gitignore matching expects a trailing slash on directories.
		pathToMatch := relPath
		if entry.IsDir() {
			pathToMatch += "/"
		}

		n := &FileNode{
			Name:            entry.Name(),
			Path:            relPath,
			IsDir:           entry.IsDir(),
			IsGitignored:    gitIgn != nil && gitIgn.MatchesPath(pathToMatch),
			IsCustomIgnored: customIgn != nil && customIgn.MatchesPath(pathToMatch),
		}
		if info, infoErr := entry.Info(); infoErr == nil {
			n.Size = info.Size()
		}

		if entry.IsDir() && !n.IsIgnored() {
			children, childErr := s.scanDir(ctx, entryPath, rootPath, gitIgn, customIgn)
			if childErr != nil {
				if ctx.Err() != nil {
					return nil, childErr
				}
				// Unreadable subdirectory: keep the node, log and move on.
				s.log.Warn("failed to read directory",
					observability.String("path", entryPath), observability.Err(childErr))
			} else {
				n.Children = children
			}
		}
		nodes = append(nodes, n)
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsDir != nodes[j].IsDir {
			return nodes[i].IsDir
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	return nodes, nil
}
