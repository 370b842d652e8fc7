// Copyright 2026 Ctxpack Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package clipboard copies assembled chunks to the system clipboard.
package clipboard

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/context-pack/ctxpack/pkg/errors"
)

// Copy writes text to the system clipboard. The clipboard library covers the
// common setups; when it reports failure (typically a headless Linux without
// xclip/xsel on PATH at init time) the platform commands are tried directly.
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}
	return copyViaCommand(text)
}

func copyViaCommand(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		if path, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command(path, "-selection", "clipboard")
		} else if path, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command(path, "--clipboard", "--input")
		} else {
			return errors.ClipboardError("no clipboard utility found (install xclip or xsel)", nil)
		}
	case "windows":
		cmd = exec.Command("clip.exe")
	default:
		return errors.ClipboardError(fmt.Sprintf("clipboard unsupported on %s", runtime.GOOS), nil)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.ClipboardError("opening clipboard command stdin", err)
	}
	go func() {
		defer stdin.Close()
		_, _ = io.WriteString(stdin, text)
	}()

	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.ClipboardError(fmt.Sprintf("clipboard command failed: %s", out), err)
	}
	return nil
}
