// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package watch emits a coalesced "tree dirty" signal when the project
// directory changes on disk. Selection recomputation is idempotent over the
// current snapshot, so bursts of filesystem events are safely collapsed into
// one refresh after a quiet period.
package watch

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/context-pack/ctxpack/pkg/node"
	"github.com/context-pack/ctxpack/pkg/observability"
)

// DefaultDebounce is the quiet period before a refresh signal fires.
const DefaultDebounce = 400 * time.Millisecond

// Watcher wraps fsnotify with debounced delivery.
type Watcher struct {
	log      observability.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher
	events   chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a watcher. A non-positive debounce uses DefaultDebounce.
func New(log observability.Logger, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		log:      log,
		debounce: debounce,
		fsw:      fsw,
		events:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}, nil
}

// Events delivers one signal per settled burst of filesystem changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Add registers the tree's root and every non-ignored directory. Ignored
// directories are not watched; changes inside them never affect the context.
func (w *Watcher) Add(tree *node.Tree) error {
	if err := w.fsw.Add(tree.RootDir()); err != nil {
		return err
	}
	var addErr error
	tree.Walk(func(n *node.FileNode) bool {
		if n.IsIgnored() {
			return false
		}
		if n.IsDir && n.Path != node.RootPath {
			if err := w.fsw.Add(tree.AbsPath(n.Path)); err != nil && addErr == nil {
				addErr = err
			}
		}
		return true
	})
	return addErr
}

// Start runs the event loop until Stop is called.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.fsw.Close()
	})
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Newly created directories need their own watch before
			// anything inside them is visible.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.fsw.Add(ev.Name); err != nil {
						w.log.Warn("failed to watch new directory",
							observability.String("path", ev.Name), observability.Err(err))
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.events <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", observability.Err(err))

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
