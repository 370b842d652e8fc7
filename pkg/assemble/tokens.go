// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package assemble

import "strings"

const (
	// DefaultCharsPerToken is the approximate number of characters per
	// token. A rough estimate that works reasonably well across models.
	DefaultCharsPerToken = 4
	// DefaultTokenBuffer is added to estimates as a safety margin.
	DefaultTokenBuffer = 100
)

// EstimateTokens estimates the token count of a text from its character
// count. No tokenizer is run; downstream chunk planning only needs a total.
func EstimateTokens(text string) int {
	return len(text)/DefaultCharsPerToken + DefaultTokenBuffer
}

// CountLines returns the number of newline-delimited lines in text.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
