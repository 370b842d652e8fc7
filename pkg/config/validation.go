// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"strings"
)

// validStrategies are the accepted chunking strategy names. Only "fixed" has
// a distinct algorithm; "semantic" and "adaptive" are accepted and currently
// behave as "fixed".
var validStrategies = map[string]bool{
	"fixed":    true,
	"semantic": true,
	"adaptive": true,
}

// validLogLevels are the accepted log level names.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}

	if err := c.Global.Validate(); err != nil {
		return fmt.Errorf("global config: %w", err)
	}

	return nil
}

// Validate validates the chunking configuration
func (c *ChunkingConfig) Validate() error {
	if c.MaxTokensPerChunk <= 0 {
		return fmt.Errorf("max_tokens_per_chunk must be positive, got %d", c.MaxTokensPerChunk)
	}
	if c.OverlapTokens < 0 {
		return fmt.Errorf("overlap_tokens must not be negative, got %d", c.OverlapTokens)
	}
	if c.OverlapTokens >= c.MaxTokensPerChunk {
		return fmt.Errorf("overlap_tokens (%d) must be smaller than max_tokens_per_chunk (%d)",
			c.OverlapTokens, c.MaxTokensPerChunk)
	}
	if !validStrategies[strings.ToLower(c.Strategy)] {
		return fmt.Errorf("unknown strategy %q (want fixed, semantic or adaptive)", c.Strategy)
	}
	return nil
}

// Validate validates the global configuration
func (c *GlobalConfig) Validate() error {
	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
