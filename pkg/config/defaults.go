// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Chunking: DefaultChunkingConfig(),
		Ignore:   DefaultIgnoreConfig(),
		Global: GlobalConfig{
			LogLevel: "info",
		},
	}
}

// DefaultChunkingConfig returns default chunking settings.
func DefaultChunkingConfig() ChunkingConfig {
	return ChunkingConfig{
		MaxTokensPerChunk: 24000,
		OverlapTokens:     0,
		Strategy:          "fixed",
	}
}

// DefaultIgnoreConfig returns default ignore settings. Both mechanisms are
// enabled; the default custom rules cover directories that never belong in a
// pasted context.
func DefaultIgnoreConfig() IgnoreConfig {
	return IgnoreConfig{
		CustomRules: []string{
			"node_modules/",
			"vendor/",
			"dist/",
			"build/",
			"*.lock",
			"*.min.js",
		},
	}
}

// GetDefaultConfigPath returns the default global config file path.
func GetDefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
}

// GetProjectConfigPath returns the project config file path.
func GetProjectConfigPath(projectRoot string) string {
	if projectRoot == "" {
		projectRoot = "."
	}
	return filepath.Join(projectRoot, ProjectConfigFile)
}
