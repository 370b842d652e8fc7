// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the application's keybindings, using bubbles/key so the
// help view can render them.
type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Collapse     key.Binding
	Expand       key.Binding
	Toggle       key.Binding
	ClearSel     key.Binding
	StartFilter  key.Binding
	ClearFilter  key.Binding
	SwitchPane   key.Binding
	NextChunk    key.Binding
	PrevChunk    key.Binding
	CopyChunk    key.Binding
	CopyAll      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// ShortHelp returns the bindings shown in the mini help line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.CopyChunk, k.NextChunk, k.StartFilter, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse, k.Expand, k.SwitchPane},
		{k.Toggle, k.ClearSel, k.StartFilter, k.ClearFilter},
		{k.PrevChunk, k.NextChunk, k.CopyChunk, k.CopyAll},
		{k.Help, k.Quit},
	}
}

// defaultKeyMap returns the standard key configuration.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space", "toggle select"),
		),
		ClearSel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear selection"),
		),
		StartFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		NextChunk: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("n", "next chunk"),
		),
		PrevChunk: key.NewBinding(
			key.WithKeys("p", "["),
			key.WithHelp("p", "prev chunk"),
		),
		CopyChunk: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy chunk & advance"),
		),
		CopyAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "copy all chunks"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
