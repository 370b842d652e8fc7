// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for ctxpack.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.ctxpack/config.yaml
// 3. Project Config: ./.ctxpack.yaml
// 4. Environment Variables: CTXPACK_*
package config

// Config represents the complete application configuration.
type Config struct {
	Chunking ChunkingConfig `yaml:"chunking"`
	Ignore   IgnoreConfig   `yaml:"ignore"`
	Global   GlobalConfig   `yaml:"global"`
}

// ChunkingConfig contains chunk planning settings.
type ChunkingConfig struct {
	MaxTokensPerChunk int    `yaml:"max_tokens_per_chunk"`
	OverlapTokens     int    `yaml:"overlap_tokens"`
	Strategy          string `yaml:"strategy"` // fixed, semantic, adaptive
}

// IgnoreConfig contains the two independent ignore mechanisms: project
// .gitignore rules and user-supplied custom rules in gitignore syntax.
type IgnoreConfig struct {
	UseGitignore   *bool    `yaml:"use_gitignore,omitempty"`
	UseCustomRules *bool    `yaml:"use_custom_rules,omitempty"`
	CustomRules    []string `yaml:"custom_rules,omitempty"`
}

// GitignoreEnabled reports whether .gitignore rules apply (default true).
func (c IgnoreConfig) GitignoreEnabled() bool {
	return c.UseGitignore == nil || *c.UseGitignore
}

// CustomRulesEnabled reports whether custom rules apply (default true).
func (c IgnoreConfig) CustomRulesEnabled() bool {
	return c.UseCustomRules == nil || *c.UseCustomRules
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	LogFile  string `yaml:"log_file"`  // optional; TUI logs here instead of stderr
}

// ConfigError describes a problem loading or validating configuration.
type ConfigError struct {
	Path  string
	Field string
	Err   error
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return "config " + e.Path + ": " + e.Err.Error()
	case e.Field != "" && e.Err != nil:
		return "config field " + e.Field + ": " + e.Err.Error()
	case e.Err != nil:
		return "config: " + e.Err.Error()
	default:
		return "config error"
	}
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
