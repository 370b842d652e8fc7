// Package main provides the ctxpack CLI application.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/context-pack/ctxpack/pkg/observability"
	"github.com/context-pack/ctxpack/pkg/session"
	"github.com/context-pack/ctxpack/pkg/tui"
)

// runTUI opens the interactive picker on dir.
func runTUI(dir string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if info, err := os.Stat(root); err != nil {
		return fmt.Errorf("cannot open %s: %w", dir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	// Logging to stderr would corrupt the alternate screen, so the TUI
	// logs to a file when one is configured and stays silent otherwise.
	log := observability.NewNop()
	if cfg.Global.LogFile != "" {
		log = observability.NewFileLogger(cfg.Global.LogLevel, cfg.Global.LogFile)
	}

	var store *session.Store
	if !rootOpts.noSession {
		store, err = session.NewStore(log)
		if err != nil {
			log.Warn("session persistence disabled", observability.Err(err))
			store = nil
		}
	}

	m, err := tui.New(tui.Options{
		Root:   root,
		Config: cfg,
		Log:    log,
		Store:  store,
	})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
