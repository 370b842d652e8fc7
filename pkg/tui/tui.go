// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package tui provides the interactive terminal UI: a tri-state file tree on
// the left, a virtualized view of the assembled context on the right, and a
// chunk HUD driving the copy-paste loop.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/context-pack/ctxpack/pkg/assemble"
	"github.com/context-pack/ctxpack/pkg/chunk"
	"github.com/context-pack/ctxpack/pkg/clipboard"
	"github.com/context-pack/ctxpack/pkg/config"
	"github.com/context-pack/ctxpack/pkg/node"
	"github.com/context-pack/ctxpack/pkg/observability"
	"github.com/context-pack/ctxpack/pkg/selection"
	"github.com/context-pack/ctxpack/pkg/session"
	"github.com/context-pack/ctxpack/pkg/watch"
)

const (
	// buildDebounce coalesces bursts of selection toggles before the
	// context is reassembled. Recomputation is idempotent, so this is
	// purely a latency/freshness trade-off.
	buildDebounce = 300 * time.Millisecond

	// largeCascadeThreshold is the subtree size above which a cascade
	// asks for a second keypress instead of starting immediately; there
	// is no mid-walk cancellation.
	largeCascadeThreshold = 2000

	statusTimeout = 3 * time.Second
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	ignoredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	checkedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boundaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	hudStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedPane   = paneStyle.BorderForeground(lipgloss.Color("62"))
)

type focusArea int

const (
	treePane focusArea = iota
	contextPane
)

// Messages.
type (
	buildTickMsg struct{ seq int }
	builtMsg     struct {
		seq int
		ctx *assemble.Context
		err error
	}
	copiedMsg struct {
		index int
		all   bool
		err   error
	}
	treeDirtyMsg struct{}
	rescannedMsg struct {
		tree *node.Tree
		err  error
	}
	clearStatusMsg struct{ seq int }
)

// Options configures the TUI.
type Options struct {
	Root   string
	Config *config.Config
	Log    observability.Logger
	Store  *session.Store // optional; nil disables persistence
}

// Model holds the entire TUI state.
type Model struct {
	opts Options
	keys keyMap
	help help.Model
	log  observability.Logger

	tree     *node.Tree
	engine   *selection.Engine
	memo     *selection.Memo
	scanner  *node.Scanner
	watcher  *watch.Watcher
	sessID   string
	expanded map[string]bool

	rows       []row
	cursor     int
	treeScroll int
	focus      focusArea

	filtering   bool
	filterQuery string

	assembled  *assemble.Context
	ctxLines   []string
	nav        *chunk.Navigator
	boundaries map[int]struct{}
	scroll     int

	pendingCascade string
	buildSeq       int
	statusSeq      int

	width, height int
	status        string
	statusIsErr   bool
	err           error
	quitting      bool
}

// New scans the project, restores the previous session and builds the
// initial model.
func New(opts Options) (*Model, error) {
	scanner := node.NewScanner(opts.Log, opts.Config.Ignore)
	tree, err := scanner.Scan(context.Background(), opts.Root)
	if err != nil {
		return nil, err
	}

	m := &Model{
		opts:       opts,
		keys:       defaultKeyMap(),
		help:       help.New(),
		log:        opts.Log,
		tree:       tree,
		engine:     selection.NewEngine(tree),
		memo:       selection.NewMemo(),
		scanner:    scanner,
		expanded:   make(map[string]bool),
		nav:        chunk.NewNavigator(nil),
		boundaries: map[int]struct{}{},
	}

	if opts.Store != nil {
		if sess, ok, loadErr := opts.Store.Load(tree.RootDir()); loadErr == nil && ok {
			m.sessID = sess.ID
			kept := m.engine.Restore(sess.Selected)
			for _, p := range sess.Expanded {
				if n, found := tree.Lookup(p); found && n.IsDir {
					m.expanded[p] = true
				}
			}
			m.log.Debug("restored session",
				observability.Int("selected", kept),
				observability.Int("expanded", len(m.expanded)))
		}
	}

	if w, watchErr := watch.New(opts.Log, 0); watchErr == nil {
		if addErr := w.Add(tree); addErr != nil {
			opts.Log.Warn("partial watch coverage", observability.Err(addErr))
		}
		w.Start()
		m.watcher = w
	} else {
		opts.Log.Warn("file watching disabled", observability.Err(watchErr))
	}

	m.rows = flattenRows(tree, m.expanded)
	return m, nil
}

// Init schedules the initial context build and the watcher listener.
func (m *Model) Init() tea.Cmd {
	m.buildSeq++
	return tea.Batch(m.buildCmd(m.buildSeq), m.waitWatchCmd())
}

// chunkConfig converts the loaded configuration for the chunking engine.
func (m *Model) chunkConfig() chunk.Config {
	c := m.opts.Config.Chunking
	return chunk.Config{
		MaxTokensPerChunk: c.MaxTokensPerChunk,
		OverlapTokens:     c.OverlapTokens,
		Strategy:          chunk.ParseStrategy(c.Strategy),
	}
}

// buildCmd assembles the context off the UI goroutine.
func (m *Model) buildCmd(seq int) tea.Cmd {
	tree := m.tree
	log := m.log
	var leaves []string
	for _, p := range m.engine.SelectedPaths() {
		if n, ok := tree.Lookup(p); ok && n.IsLeaf() {
			leaves = append(leaves, p)
		}
	}
	return func() tea.Msg {
		asm := assemble.New(tree, log, assemble.Options{IncludeManifest: true})
		c, err := asm.Build(context.Background(), leaves)
		return builtMsg{seq: seq, ctx: c, err: err}
	}
}

// scheduleBuild debounces context reassembly after a selection change.
func (m *Model) scheduleBuild() tea.Cmd {
	m.buildSeq++
	seq := m.buildSeq
	return tea.Tick(buildDebounce, func(time.Time) tea.Msg {
		return buildTickMsg{seq: seq}
	})
}

func (m *Model) waitWatchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Events()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return treeDirtyMsg{}
	}
}

func (m *Model) rescanCmd() tea.Cmd {
	scanner := m.scanner
	root := m.tree.RootDir()
	return func() tea.Msg {
		tree, err := scanner.Scan(context.Background(), root)
		return rescannedMsg{tree: tree, err: err}
	}
}

// setStatus shows a transient message below the panes.
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusIsErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// saveSession persists the current selection and expansion state.
func (m *Model) saveSession() {
	if m.opts.Store == nil {
		return
	}
	var expanded []string
	for p := range m.expanded {
		expanded = append(expanded, p)
	}
	sess := &session.Session{
		ID:       m.sessID,
		Root:     m.tree.RootDir(),
		Selected: m.engine.SelectedPaths(),
		Expanded: expanded,
	}
	if err := m.opts.Store.Save(sess); err != nil {
		m.log.Warn("failed to save session", observability.Err(err))
	}
}

// Update is the message handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case buildTickMsg:
		if msg.seq != m.buildSeq {
			return m, nil // superseded by a later toggle
		}
		return m, m.buildCmd(msg.seq)

	case builtMsg:
		if msg.seq != m.buildSeq {
			return m, nil
		}
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		m.assembled = msg.ctx
		m.ctxLines = chunk.Lines(msg.ctx.Text)
		plan := chunk.Plan(msg.ctx.TotalTokens, msg.ctx.TotalLines, m.chunkConfig())
		m.nav.Rebuild(plan)
		m.boundaries = chunk.Boundaries(plan)
		m.scroll = clampOffset(m.scroll, m.paneHeight(), len(m.ctxLines))
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		if msg.all {
			return m, m.setStatus(fmt.Sprintf("copied all %d chunks", m.nav.Len()), false)
		}
		m.nav.MarkCopied(msg.index, true)
		if d, ok := m.nav.CurrentDescriptor(); ok {
			m.scroll = scrollTo(d.StartLine, m.paneHeight(), len(m.ctxLines))
		}
		return m, m.setStatus(fmt.Sprintf("copied chunk %d/%d", msg.index, m.nav.Len()), false)

	case treeDirtyMsg:
		return m, tea.Batch(m.rescanCmd(), m.waitWatchCmd())

	case rescannedMsg:
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		m.tree = msg.tree
		m.engine.SetTree(msg.tree)
		for p := range m.expanded {
			if _, ok := msg.tree.Lookup(p); !ok {
				delete(m.expanded, p)
			}
		}
		m.refreshRows()
		m.buildSeq++
		return m, tea.Batch(m.buildCmd(m.buildSeq), m.setStatus("tree refreshed", false))

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.saveSession()
		if m.watcher != nil {
			m.watcher.Stop()
		}
		return m, tea.Quit
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == treePane {
			m.focus = contextPane
		} else {
			m.focus = treePane
		}

	case key.Matches(msg, m.keys.StartFilter):
		m.filtering = true
		m.filterQuery = ""
		m.rows = filterRows(m.tree, m.filterQuery)
		m.cursor = 0
		m.treeScroll = 0

	case key.Matches(msg, m.keys.Up):
		if m.focus == treePane {
			m.moveCursor(-1)
		} else {
			m.scroll = clampOffset(m.scroll-1, m.paneHeight(), len(m.ctxLines))
		}

	case key.Matches(msg, m.keys.Down):
		if m.focus == treePane {
			m.moveCursor(1)
		} else {
			m.scroll = clampOffset(m.scroll+1, m.paneHeight(), len(m.ctxLines))
		}

	case key.Matches(msg, m.keys.Collapse):
		if m.focus == treePane {
			m.collapseCurrent()
		}

	case key.Matches(msg, m.keys.Expand):
		if m.focus == treePane {
			m.expandCurrent()
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.focus == treePane {
			return m, m.toggleCurrent()
		}

	case key.Matches(msg, m.keys.ClearSel):
		m.engine.Clear()
		return m, tea.Batch(m.scheduleBuild(), m.setStatus("selection cleared", false))

	case key.Matches(msg, m.keys.NextChunk):
		m.nav.Next()
		m.scrollToCurrentChunk()

	case key.Matches(msg, m.keys.PrevChunk):
		m.nav.Prev()
		m.scrollToCurrentChunk()

	case key.Matches(msg, m.keys.CopyChunk):
		if d, ok := m.nav.CurrentDescriptor(); ok {
			text := chunk.Extract(m.ctxLines, d)
			idx := m.nav.Current()
			return m, func() tea.Msg {
				return copiedMsg{index: idx, err: clipboard.Copy(text)}
			}
		}
		return m, m.setStatus("nothing to copy", false)

	case key.Matches(msg, m.keys.CopyAll):
		if m.nav.Len() > 0 {
			text := chunk.ExtractAll(m.ctxLines, m.nav.Plan())
			return m, func() tea.Msg {
				return copiedMsg{all: true, err: clipboard.Copy(text)}
			}
		}
		return m, m.setStatus("nothing to copy", false)
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filterQuery = ""
		m.refreshRows()
		return m, nil

	case tea.KeyBackspace:
		if len(m.filterQuery) > 0 {
			r := []rune(m.filterQuery)
			m.filterQuery = string(r[:len(r)-1])
			m.rows = filterRows(m.tree, m.filterQuery)
			m.cursor = 0
		}
		return m, nil

	case tea.KeyCtrlJ:
		m.moveCursor(1)
		return m, nil

	case tea.KeyCtrlK:
		m.moveCursor(-1)
		return m, nil

	case tea.KeyEnter:
		return m, m.toggleCurrent()

	case tea.KeyRunes:
		m.filterQuery += string(msg.Runes)
		m.rows = filterRows(m.tree, m.filterQuery)
		m.cursor = 0
		return m, nil

	case tea.KeySpace:
		m.filterQuery += " "
		m.rows = filterRows(m.tree, m.filterQuery)
		m.cursor = 0
		return m, nil
	}
	return m, nil
}

func (m *Model) refreshRows() {
	m.rows = flattenRows(m.tree, m.expanded)
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	h := m.paneHeight()
	if m.cursor < m.treeScroll {
		m.treeScroll = m.cursor
	}
	if h > 0 && m.cursor >= m.treeScroll+h {
		m.treeScroll = m.cursor - h + 1
	}
}

func (m *Model) currentRow() (row, bool) {
	if m.cursor < 0 || m.cursor > len(m.rows)-1 {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) expandCurrent() {
	if r, ok := m.currentRow(); ok && r.n.IsDir && !r.n.IsIgnored() {
		m.expanded[r.n.Path] = true
		m.refreshRows()
	}
}

func (m *Model) collapseCurrent() {
	r, ok := m.currentRow()
	if !ok {
		return
	}
	if r.n.IsDir && m.expanded[r.n.Path] {
		delete(m.expanded, r.n.Path)
		m.refreshRows()
		return
	}
	// On a file or a collapsed dir, jump to the parent row.
	if r.n.ParentPath != "" && r.n.ParentPath != node.RootPath {
		for i, cand := range m.rows {
			if cand.n.Path == r.n.ParentPath {
				m.cursor = i
				m.moveCursor(0)
				return
			}
		}
	}
}

func (m *Model) toggleCurrent() tea.Cmd {
	r, ok := m.currentRow()
	if !ok {
		return nil
	}
	if err := m.engine.Validate(r.n.Path); err != nil {
		return m.setStatus(err.Error(), true)
	}

	// Pre-flight large cascades: count first, confirm with a second press.
	if r.n.IsDir {
		count := m.engine.CountFiles(r.n, 0)
		if count > largeCascadeThreshold && m.pendingCascade != r.n.Path {
			m.pendingCascade = r.n.Path
			return m.setStatus(fmt.Sprintf("toggle %d files? press again to confirm", count), false)
		}
	}
	m.pendingCascade = ""

	changed := m.engine.ToggleCascade(r.n.Path)
	if changed == 0 && r.n.IsLeaf() {
		// Leaf toggles always change exactly one path unless ignored.
		return nil
	}
	return m.scheduleBuild()
}

func (m *Model) scrollToCurrentChunk() {
	if d, ok := m.nav.CurrentDescriptor(); ok {
		m.scroll = scrollTo(d.StartLine, m.paneHeight(), len(m.ctxLines))
	}
}

// paneHeight is the inner height available to both panes: total height minus
// the title, HUD, status and help rows and the pane borders.
func (m *Model) paneHeight() int {
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the UI.
func (m *Model) View() string {
	if m.quitting {
		return "bye\n"
	}
	if m.width == 0 {
		return "loading..."
	}

	treeWidth := m.width * 2 / 5
	if treeWidth < 24 {
		treeWidth = 24
	}
	ctxWidth := m.width - treeWidth - 6
	if ctxWidth < 20 {
		ctxWidth = 20
	}
	h := m.paneHeight()

	treeBody := m.renderTree(h, treeWidth)
	ctxBody := m.renderContext(h, ctxWidth)

	treeBox := paneStyle
	ctxBox := paneStyle
	if m.focus == treePane {
		treeBox = focusedPane
	} else {
		ctxBox = focusedPane
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		treeBox.Width(treeWidth).Height(h).Render(treeBody),
		ctxBox.Width(ctxWidth).Height(h).Render(ctxBody),
	)

	title := titleStyle.Render("ctxpack " + m.tree.RootDir())
	var statusLine string
	switch {
	case m.filtering:
		statusLine = filterStyle.Render("filter: ") + m.filterQuery + statusStyle.Render("▌")
	case m.statusIsErr:
		statusLine = errorStyle.Render(m.status)
	case m.status != "":
		statusLine = statusStyle.Render(m.status)
	default:
		statusLine = statusStyle.Render("press ? for help")
	}

	return strings.Join([]string{
		title,
		panes,
		m.renderHUD(),
		statusLine,
		m.help.View(m.keys),
	}, "\n")
}

func (m *Model) renderTree(height, width int) string {
	if len(m.rows) == 0 {
		return statusStyle.Render("no files")
	}
	end := m.treeScroll + height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var b strings.Builder
	for i := m.treeScroll; i < end; i++ {
		r := m.rows[i]
		st := m.memo.State(m.engine, r.n)
		line := renderRow(r, st, m.expanded[r.n.Path])
		line = truncate(line, width-2)

		switch {
		case i == m.cursor && m.focus == treePane:
			line = cursorStyle.Render(line)
		case r.n.IsIgnored():
			line = ignoredStyle.Render(line)
		case st == selection.On:
			line = checkedStyle.Render(line)
		case st == selection.Partial:
			line = partialStyle.Render(line)
		case r.n.IsDir:
			line = dirStyle.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderContext draws the visible slice of the assembled text. A rule is
// drawn immediately above any line that starts a new chunk.
func (m *Model) renderContext(height, width int) string {
	if m.assembled == nil || len(m.ctxLines) == 0 || m.assembled.Text == "" {
		return statusStyle.Render("select files to assemble a context")
	}

	var out []string
	chunkNo := 2 // the first boundary opens chunk 2
	for i := 0; i < m.scroll; i++ {
		if _, ok := m.boundaries[i]; ok {
			chunkNo++
		}
	}
	for i := m.scroll; len(out) < height && i < len(m.ctxLines); i++ {
		if _, ok := m.boundaries[i]; ok {
			rule := fmt.Sprintf("┄┄ chunk %d ", chunkNo)
			if width > len(rule) {
				rule += strings.Repeat("┄", width-len(rule)-1)
			}
			out = append(out, boundaryStyle.Render(rule))
			chunkNo++
			if len(out) >= height {
				break
			}
		}
		out = append(out, truncate(m.ctxLines[i], width-1))
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderHUD() string {
	if m.assembled == nil {
		return hudStyle.Render("assembling…")
	}
	stats := m.engine.Stats(m.tree.Root())

	var chunkPart string
	if m.nav.Len() == 0 {
		chunkPart = "no chunks"
	} else {
		marks := make([]string, m.nav.Len())
		for i := 1; i <= m.nav.Len(); i++ {
			switch {
			case i == m.nav.Current():
				marks[i-1] = "◆"
			case m.nav.Copied(i):
				marks[i-1] = "●"
			default:
				marks[i-1] = "○"
			}
		}
		tok := 0
		if d, ok := m.nav.CurrentDescriptor(); ok {
			tok = d.TokenCount
		}
		chunkPart = fmt.Sprintf("chunk %d/%d %s ~%d tok",
			m.nav.Current(), m.nav.Len(), strings.Join(marks, ""), tok)
	}

	return hudStyle.Render(fmt.Sprintf("%s │ %d files · %d lines · ~%d tok │ selected %d/%d (%.0f%%)",
		chunkPart,
		m.assembled.FileCount, m.assembled.TotalLines, m.assembled.TotalTokens,
		stats.Selected, stats.Total, stats.Percent))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
