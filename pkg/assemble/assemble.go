// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package assemble builds the concatenated context text from the selected
// leaf paths: an optional ASCII tree manifest, then each file behind a
// "--- File: path ---" header. The chunking engine treats the result as
// opaque text plus line/token totals.
package assemble

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/context-pack/ctxpack/pkg/errors"
	"github.com/context-pack/ctxpack/pkg/node"
	"github.com/context-pack/ctxpack/pkg/observability"
)

// MaxOutputBytes caps the assembled context size. Anything bigger than this
// is useless for a paste workflow and usually means a stray selection.
const MaxOutputBytes = 10_000_000

// headerFormat is the per-file header. The export splitter keys on it.
const headerFormat = "--- File: %s ---\n"

// Context is the assembled output plus the metrics chunk planning consumes.
type Context struct {
	Text        string
	TotalLines  int
	TotalTokens int
	FileCount   int
	SkippedFiles int
}

// Options controls assembly.
type Options struct {
	IncludeManifest bool
}

// Assembler reads selected files from a tree's root directory.
type Assembler struct {
	tree *node.Tree
	log  observability.Logger
	opts Options
}

// New creates an assembler over the given tree.
func New(tree *node.Tree, log observability.Logger, opts Options) *Assembler {
	return &Assembler{tree: tree, log: log, opts: opts}
}

// Build assembles the context from the given leaf paths. Unreadable files
// are skipped with a warning rather than failing the whole build; exceeding
// the output cap fails it.
func (a *Assembler) Build(ctx context.Context, paths []string) (*Context, error) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var b strings.Builder
	if a.opts.IncludeManifest && len(sorted) > 0 {
		b.WriteString(TreeManifest(sorted))
		b.WriteString("\n")
	}

	out := &Context{}
	for _, p := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, errors.AssembleError("assembly cancelled", err)
		}

		content, err := os.ReadFile(a.tree.AbsPath(p))
		if err != nil {
			a.log.Warn("skipping unreadable file",
				observability.String("path", p), observability.Err(err))
			out.SkippedFiles++
			continue
		}

		fmt.Fprintf(&b, headerFormat, p)
		b.Write(content)
		b.WriteString("\n\n")
		out.FileCount++

		if b.Len() > MaxOutputBytes {
			return nil, errors.AssembleError(
				fmt.Sprintf("assembled context exceeds %d bytes", MaxOutputBytes), nil)
		}
	}

	out.Text = b.String()
	out.TotalLines = CountLines(out.Text)
	out.TotalTokens = EstimateTokens(out.Text)

	a.log.Debug("assembled context",
		observability.Int("files", out.FileCount),
		observability.Int("skipped", out.SkippedFiles),
		observability.Int("lines", out.TotalLines),
		observability.Int("tokens", out.TotalTokens))
	return out, nil
}
