// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package chunk

import (
	"fmt"
	"strings"
)

// Lines splits assembled text into its line array. The chunking engine never
// parses the text for semantics; it only slices it by line index.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// Extract returns the copyable text for one descriptor: the literal
// concatenation of lines [StartLine, EndLine] joined by newlines. No
// re-tokenization, no truncation beyond the line boundary.
func Extract(lines []string, d Descriptor) string {
	start, end := d.StartLine, d.EndLine
	if start < 0 {
		start = 0
	}
	if end > len(lines)-1 {
		end = len(lines) - 1
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start:end+1], "\n")
}

// ExtractAll concatenates every chunk's text with a visible banner between
// them. This is a paste-friendly merge, not a token-accurate one.
func ExtractAll(lines []string, plan []Descriptor) string {
	var b strings.Builder
	for i, d := range plan {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "=== CHUNK %d ===\n", i+1)
		b.WriteString(Extract(lines, d))
	}
	return b.String()
}
