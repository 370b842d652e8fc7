// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "CTXPACK"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".ctxpack.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".ctxpack"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	skipGlobal  bool
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global Config ($HOME/.ctxpack/config.yaml)
// 3. Project Config (./.ctxpack.yaml)
// 4. Environment Variables (CTXPACK_*)
func (l *Loader) Load() (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Load global config if not skipped
	if !l.skipGlobal {
		globalCfg, err := l.loadGlobalConfig()
		if err == nil {
			mergeConfig(cfg, globalCfg)
		}
		// Ignore errors for global config (it's optional)
	}

	// Load project config
	projectCfg, err := l.loadProjectConfig()
	if err == nil {
		mergeConfig(cfg, projectCfg)
	}
	// Ignore errors for project config (it's optional)

	// Apply environment overrides
	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

// loadGlobalConfig loads global config from $HOME/.ctxpack/config.yaml.
func (l *Loader) loadGlobalConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	globalPath := filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
	return l.LoadFromPath(globalPath)
}

// loadProjectConfig loads project config from ./.ctxpack.yaml.
func (l *Loader) loadProjectConfig() (*Config, error) {
	root := l.projectRoot
	if root == "" {
		root = "."
	}

	projectPath := filepath.Join(root, ProjectConfigFile)
	return l.LoadFromPath(projectPath)
}

// applyEnvOverrides applies environment variable overrides.
// Format: CTXPACK_SECTION__KEY=value
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("CTXPACK_CHUNKING__MAX_TOKENS_PER_CHUNK"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "chunking.max_tokens_per_chunk", Err: err}
		}
		cfg.Chunking.MaxTokensPerChunk = n
	}
	if v := os.Getenv("CTXPACK_CHUNKING__OVERLAP_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "chunking.overlap_tokens", Err: err}
		}
		cfg.Chunking.OverlapTokens = n
	}
	if v := os.Getenv("CTXPACK_CHUNKING__STRATEGY"); v != "" {
		cfg.Chunking.Strategy = strings.ToLower(v)
	}
	if v := os.Getenv("CTXPACK_IGNORE__USE_GITIGNORE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: "ignore.use_gitignore", Err: err}
		}
		cfg.Ignore.UseGitignore = &b
	}
	if v := os.Getenv("CTXPACK_IGNORE__USE_CUSTOM_RULES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: "ignore.use_custom_rules", Err: err}
		}
		cfg.Ignore.UseCustomRules = &b
	}
	if v := os.Getenv("CTXPACK_GLOBAL__LOG_LEVEL"); v != "" {
		cfg.Global.LogLevel = v
	}
	if v := os.Getenv("CTXPACK_GLOBAL__LOG_FILE"); v != "" {
		cfg.Global.LogFile = v
	}

	return nil
}

// mergeConfig merges src into dst (src overrides dst).
func mergeConfig(dst, src *Config) {
	if src.Chunking.MaxTokensPerChunk > 0 {
		dst.Chunking.MaxTokensPerChunk = src.Chunking.MaxTokensPerChunk
	}
	if src.Chunking.OverlapTokens > 0 {
		dst.Chunking.OverlapTokens = src.Chunking.OverlapTokens
	}
	if src.Chunking.Strategy != "" {
		dst.Chunking.Strategy = src.Chunking.Strategy
	}

	if src.Ignore.UseGitignore != nil {
		dst.Ignore.UseGitignore = src.Ignore.UseGitignore
	}
	if src.Ignore.UseCustomRules != nil {
		dst.Ignore.UseCustomRules = src.Ignore.UseCustomRules
	}
	if len(src.Ignore.CustomRules) > 0 {
		dst.Ignore.CustomRules = src.Ignore.CustomRules
	}

	if src.Global.LogLevel != "" {
		dst.Global.LogLevel = src.Global.LogLevel
	}
	if src.Global.LogFile != "" {
		dst.Global.LogFile = src.Global.LogFile
	}
}
