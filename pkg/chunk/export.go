// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package chunk

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/context-pack/ctxpack/pkg/errors"
	"github.com/context-pack/ctxpack/pkg/observability"
)

// ExportStrategy selects how raw assembled text is split for clipboard
// export. Unlike the navigation plan, export chunks may overlap.
type ExportStrategy string

const (
	// ExportFile splits on per-file headers, keeping files whole.
	ExportFile ExportStrategy = "file"
	// ExportToken splits purely by approximate token count with overlap.
	ExportToken ExportStrategy = "token"
	// ExportSmart tries file boundaries first and falls back to token
	// splitting when a single file exceeds the budget.
	ExportSmart ExportStrategy = "smart"
)

// ExportConfig holds export splitting settings. OverlapTokens worth of
// trailing content is shared with the next chunk's leading content.
type ExportConfig struct {
	MaxTokensPerChunk int
	OverlapTokens     int
	Strategy          ExportStrategy
}

// fileHeaderRe matches the per-file headers the assembler emits.
var fileHeaderRe = regexp.MustCompile(`(?m)^--- File: .*? ---\s*`)

// ApproxTokens estimates the token count of a string assuming four runes per
// token. A proper tokenizer is deliberately not run here.
func ApproxTokens(s string) int {
	return utf8.RuneCountInString(s) / 4
}

// Exporter splits assembled context text into export chunks.
type Exporter struct {
	log observability.Logger
}

// NewExporter creates an exporter.
func NewExporter(log observability.Logger) *Exporter {
	return &Exporter{log: log}
}

// Split splits text according to cfg. A text that already fits the budget
// comes back as a single chunk.
func (e *Exporter) Split(text string, cfg ExportConfig) ([]string, error) {
	if cfg.MaxTokensPerChunk <= 0 {
		return nil, errors.New(errors.ErrInvalidConfig, "max tokens per chunk must be positive", nil)
	}

	totalTokens := ApproxTokens(text)
	if totalTokens <= cfg.MaxTokensPerChunk {
		return []string{text}, nil
	}

	e.log.Info("splitting context for export",
		observability.Int("totalTokens", totalTokens),
		observability.Int("maxTokensPerChunk", cfg.MaxTokensPerChunk),
		observability.String("strategy", string(cfg.Strategy)))

	switch cfg.Strategy {
	case ExportFile:
		return e.splitByFileHeaders(text, cfg.MaxTokensPerChunk), nil
	case ExportToken:
		return e.splitByTokenCount(text, cfg.MaxTokensPerChunk, cfg.OverlapTokens)
	case ExportSmart:
		chunks := e.splitByFileHeaders(text, cfg.MaxTokensPerChunk)
		for _, c := range chunks {
			if ApproxTokens(c) > cfg.MaxTokensPerChunk {
				e.log.Info("file-based split left oversized chunks, falling back to token split")
				return e.splitByTokenCount(text, cfg.MaxTokensPerChunk, cfg.OverlapTokens)
			}
		}
		return chunks, nil
	default:
		return nil, errors.New(errors.ErrInvalidConfig,
			fmt.Sprintf("unknown export strategy: %s", cfg.Strategy), nil)
	}
}

// splitByFileHeaders splits on per-file headers, packing whole files into
// chunks up to the token limit. A single file larger than the limit becomes
// its own oversized chunk.
func (e *Exporter) splitByFileHeaders(text string, tokenLimit int) []string {
	idxs := fileHeaderRe.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		e.log.Warn("no file headers found, returning text as a single chunk")
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	// Leading manifest, if any, stays with the first chunk.
	if idxs[0][0] > 0 {
		head := text[:idxs[0][0]]
		current.WriteString(head)
		currentTokens += ApproxTokens(head)
	}

	for i := 0; i < len(idxs); i++ {
		start := idxs[i][0]
		end := len(text)
		if i+1 < len(idxs) {
			end = idxs[i+1][0]
		}
		segment := text[start:end]
		segmentTokens := ApproxTokens(segment)

		if currentTokens > 0 && currentTokens+segmentTokens > tokenLimit {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentTokens = 0
		}
		current.WriteString(segment)
		currentTokens += segmentTokens
	}

	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// splitByTokenCount splits purely by approximate token count. Consecutive
// chunks share overlapTokens worth of content; the window never re-wraps
// past the text start and always makes forward progress.
func (e *Exporter) splitByTokenCount(text string, tokenLimit, overlapTokens int) ([]string, error) {
	if tokenLimit <= overlapTokens {
		return nil, errors.New(errors.ErrInvalidConfig,
			fmt.Sprintf("token limit (%d) must exceed overlap (%d)", tokenLimit, overlapTokens), nil)
	}

	runes := []rune(text)
	textLength := len(runes)

	// Token budgets become rune budgets via the 4-runes-per-token estimate.
	charLimit := tokenLimit * 4
	overlapChars := overlapTokens * 4

	var chunks []string
	pos := 0
	for pos < textLength {
		end := pos + charLimit
		if end > textLength {
			end = textLength
		}
		chunks = append(chunks, string(runes[pos:end]))
		if end >= textLength {
			break
		}

		step := charLimit - overlapChars
		if step <= 0 {
			step = 1
		}
		pos += step
	}
	return chunks, nil
}
