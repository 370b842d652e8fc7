// Package main provides the ctxpack CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/context-pack/ctxpack/pkg/assemble"
	"github.com/context-pack/ctxpack/pkg/chunk"
	"github.com/context-pack/ctxpack/pkg/node"
	"github.com/context-pack/ctxpack/pkg/observability"
	"github.com/context-pack/ctxpack/pkg/selection"
	"github.com/context-pack/ctxpack/pkg/session"
)

// packFlags holds the flags for the pack command.
type packFlags struct {
	all        bool
	paths      []string
	useSession bool
	output     string
	stdout     bool
	planOnly   bool
	maxTokens  int
	overlap    int
	strategy   string
	noManifest bool
}

var packOpts packFlags

// packCmd assembles and splits a context without the interactive UI.
var packCmd = &cobra.Command{
	Use:   "pack [dir]",
	Short: "Assemble and split a context non-interactively",
	Long: `Assemble selected files from a project directory into context chunks.

The selection comes from --all, repeated --select paths, or the saved
session for the directory. Chunks are written to the output directory
as numbered text files, or to stdout with --stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runPack(dir)
	},
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().BoolVarP(&packOpts.all, "all", "a", false, "Select every non-ignored file")
	packCmd.Flags().StringArrayVarP(&packOpts.paths, "select", "s", nil, "Select a path (repeatable); directories cascade")
	packCmd.Flags().BoolVar(&packOpts.useSession, "session", false, "Restore the saved selection for this directory")
	packCmd.Flags().StringVarP(&packOpts.output, "output", "o", ".", "Directory for chunk files")
	packCmd.Flags().BoolVar(&packOpts.stdout, "stdout", false, "Write chunks to stdout instead of files")
	packCmd.Flags().BoolVar(&packOpts.planOnly, "plan", false, "Print the chunk plan without writing anything")
	packCmd.Flags().IntVar(&packOpts.maxTokens, "max-tokens", 0, "Override max tokens per chunk")
	packCmd.Flags().IntVar(&packOpts.overlap, "overlap", -1, "Override overlap tokens between chunks")
	packCmd.Flags().StringVar(&packOpts.strategy, "strategy", "", "Export split strategy: file, token, smart")
	packCmd.Flags().BoolVar(&packOpts.noManifest, "no-manifest", false, "Omit the file tree manifest")
}

func runPack(dir string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if packOpts.maxTokens > 0 {
		cfg.Chunking.MaxTokensPerChunk = packOpts.maxTokens
	}
	if packOpts.overlap >= 0 {
		cfg.Chunking.OverlapTokens = packOpts.overlap
	}
	if err := cfg.Chunking.Validate(); err != nil {
		return err
	}

	log := observability.NewLogger(cfg.Global.LogLevel)

	tree, err := node.NewScanner(log, cfg.Ignore).Scan(context.Background(), root)
	if err != nil {
		return err
	}

	engine := selection.NewEngine(tree)
	if err := applySelection(engine, tree, log); err != nil {
		return err
	}
	if engine.Len() == 0 {
		return fmt.Errorf("nothing selected; use --all, --select or --session")
	}

	var leaves []string
	for _, p := range engine.SelectedPaths() {
		if n, ok := tree.Lookup(p); ok && n.IsLeaf() {
			leaves = append(leaves, p)
		}
	}

	asm := assemble.New(tree, log, assemble.Options{IncludeManifest: !packOpts.noManifest})
	out, err := asm.Build(context.Background(), leaves)
	if err != nil {
		return err
	}
	log.Info("assembled context",
		observability.Int("files", out.FileCount),
		observability.Int("lines", out.TotalLines),
		observability.Int("tokens", out.TotalTokens))

	if packOpts.planOnly {
		plan := chunk.Plan(out.TotalTokens, out.TotalLines, chunk.Config{
			MaxTokensPerChunk: cfg.Chunking.MaxTokensPerChunk,
			OverlapTokens:     cfg.Chunking.OverlapTokens,
			Strategy:          chunk.ParseStrategy(cfg.Chunking.Strategy),
		})
		fmt.Printf("%d files, %d lines, ~%d tokens, %d chunks\n",
			out.FileCount, out.TotalLines, out.TotalTokens, len(plan))
		for _, d := range plan {
			fmt.Printf("  chunk %d: lines %d-%d, ~%d tokens\n",
				d.Index+1, d.StartLine, d.EndLine, d.TokenCount)
		}
		return nil
	}

	strategy := chunk.ExportStrategy(packOpts.strategy)
	if packOpts.strategy == "" {
		strategy = chunk.ExportSmart
	}
	chunks, err := chunk.NewExporter(log).Split(out.Text, chunk.ExportConfig{
		MaxTokensPerChunk: cfg.Chunking.MaxTokensPerChunk,
		OverlapTokens:     cfg.Chunking.OverlapTokens,
		Strategy:          strategy,
	})
	if err != nil {
		return err
	}

	if packOpts.stdout {
		for i, c := range chunks {
			if len(chunks) > 1 {
				fmt.Printf("=== CHUNK %d/%d ===\n", i+1, len(chunks))
			}
			fmt.Println(c)
		}
		return nil
	}

	if err := os.MkdirAll(packOpts.output, 0o755); err != nil {
		return err
	}
	for i, c := range chunks {
		name := "context.txt"
		if len(chunks) > 1 {
			name = fmt.Sprintf("context_%03d.txt", i+1)
		}
		path := filepath.Join(packOpts.output, name)
		if err := os.WriteFile(path, []byte(c), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (~%d tokens)\n", path, chunk.ApproxTokens(c))
	}
	return nil
}

// applySelection fills the engine from the flag-chosen source. Explicit
// --select paths fail loudly on unknown or ignored targets; a restored
// session drops stale paths silently, matching interactive behavior.
func applySelection(engine *selection.Engine, tree *node.Tree, log observability.Logger) error {
	if packOpts.all {
		engine.ToggleCascade(node.RootPath)
	}

	for _, p := range packOpts.paths {
		p = filepath.ToSlash(p)
		if err := engine.Validate(p); err != nil {
			return err
		}
		engine.ToggleCascade(p)
	}

	if packOpts.useSession {
		store, err := session.NewStore(log)
		if err != nil {
			return err
		}
		sess, ok, err := store.Load(tree.RootDir())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no saved session for %s", tree.RootDir())
		}
		kept := engine.Restore(sess.Selected)
		log.Info("restored session selection",
			observability.Int("kept", kept),
			observability.Int("saved", len(sess.Selected)))
	}
	return nil
}
