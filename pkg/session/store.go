// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package session persists per-project selection state: the flat list of
// selected leaf paths and the expanded directory paths, keyed by project
// root. The selection engine re-validates restored paths, so entries that no
// longer resolve are dropped silently on restore.
package session

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/context-pack/ctxpack/pkg/errors"
	"github.com/context-pack/ctxpack/pkg/observability"
)

// stateFileName is the sessions file, placed under the XDG state directory.
const stateFileName = "ctxpack/sessions.yaml"

// Session is the persisted state for one project root.
type Session struct {
	ID       string    `yaml:"id"`
	Root     string    `yaml:"root"`
	Selected []string  `yaml:"selected,omitempty"`
	Expanded []string  `yaml:"expanded,omitempty"`
	SavedAt  time.Time `yaml:"saved_at"`
}

// Empty reports whether the session carries no state worth keeping.
func (s *Session) Empty() bool {
	return len(s.Selected) == 0 && len(s.Expanded) == 0
}

type sessionsFile struct {
	Sessions map[string]*Session `yaml:"sessions"`
}

// Store reads and writes the sessions file.
type Store struct {
	path string
	log  observability.Logger
}

// NewStore creates a store backed by the XDG state directory.
func NewStore(log observability.Logger) (*Store, error) {
	path, err := xdg.StateFile(stateFileName)
	if err != nil {
		return nil, errors.SessionError("resolving sessions file path", err)
	}
	return &Store{path: path, log: log}, nil
}

// NewStoreAt creates a store backed by an explicit file path.
func NewStoreAt(path string, log observability.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load returns the session for a project root, reporting whether one exists.
// A missing sessions file is not an error.
func (s *Store) Load(root string) (*Session, bool, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, false, err
	}
	sess, ok := all.Sessions[root]
	return sess, ok, nil
}

// Save writes the session, assigning an ID and timestamp. An empty session
// removes the project's entry instead, so cleared selections don't pile up.
func (s *Store) Save(sess *Session) error {
	all, err := s.readAll()
	if err != nil {
		return err
	}

	if sess.Empty() {
		delete(all.Sessions, sess.Root)
	} else {
		if sess.ID == "" {
			sess.ID = uuid.NewString()
		}
		sess.SavedAt = time.Now()
		all.Sessions[sess.Root] = sess
	}
	return s.writeAll(all)
}

// Delete removes the session for a project root.
func (s *Store) Delete(root string) error {
	all, err := s.readAll()
	if err != nil {
		return err
	}
	if _, ok := all.Sessions[root]; !ok {
		return nil
	}
	delete(all.Sessions, root)
	return s.writeAll(all)
}

func (s *Store) readAll() (*sessionsFile, error) {
	all := &sessionsFile{Sessions: make(map[string]*Session)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return all, nil
		}
		return nil, errors.SessionError("reading sessions file", err)
	}
	if err := yaml.Unmarshal(data, all); err != nil {
		// A corrupt sessions file should never block the application;
		// start over and log what happened.
		s.log.Warn("sessions file is corrupt, starting fresh",
			observability.String("path", s.path), observability.Err(err))
		return &sessionsFile{Sessions: make(map[string]*Session)}, nil
	}
	if all.Sessions == nil {
		all.Sessions = make(map[string]*Session)
	}
	return all, nil
}

func (s *Store) writeAll(all *sessionsFile) error {
	data, err := yaml.Marshal(all)
	if err != nil {
		return errors.SessionError("encoding sessions file", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.SessionError("creating sessions directory", err)
	}
	if err := os.WriteFile(s.path, data, 0o640); err != nil {
		return errors.SessionError("writing sessions file", err)
	}
	return nil
}
