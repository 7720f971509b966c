// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package trace renders the forensic stack-trace block appended to the error
// log for each failure: call chain, process context, sorted environment, and
// a window of source around the failing line. Every sub-step is best-effort;
// whatever cannot be gathered is skipped without aborting the rest.
package trace

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"sort"
	"strings"

	"provdiag/pkg/diag"
	"provdiag/pkg/log"
)

//lines of source shown on each side of the failing line
const excerptRadius = 5

// Format renders the complete trace block for ev, headed by the event id.
func Format(ev diag.ErrorEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stack Trace (Error ID: %s)\n", ev.ID)
	fmt.Fprintf(&b, "Process ID: %d\n", ev.Pid)
	fmt.Fprintf(&b, "Failed command: %s\n", ev.Command)
	fmt.Fprintf(&b, "Exit code: %d\n", ev.ExitCode)
	fmt.Fprintf(&b, "Failure at line %d in %s\n", ev.Line, ev.Function)
	fmt.Fprintf(&b, "Source file: %s\n", ev.File)
	if wd, err := os.Getwd(); err == nil {
		fmt.Fprintf(&b, "Working dir: %s\n", wd)
	}
	if u, err := user.Current(); err == nil {
		fmt.Fprintf(&b, "User: %s\n", u.Username)
	}
	fmt.Fprintf(&b, "Timestamp: %s\n", ev.Time.Format(log.TimestampLayout))

	frames := ev.Frames
	if len(frames) == 0 {
		frames = diag.CaptureFrames(1)
	}
	if len(frames) > 0 {
		b.WriteString("\nCall chain (innermost first):\n")
		for i, fr := range frames {
			fmt.Fprintf(&b, "  #%d %s (%s:%d)\n", i, fr.Function, fr.File, fr.Line)
		}
	}

	b.WriteString("\nEnvironment:\n")
	env := os.Environ()
	sort.Strings(env)
	for _, e := range env {
		fmt.Fprintf(&b, "  %s\n", e)
	}

	if exc := Excerpt(ev.File, ev.Line); exc != "" {
		b.WriteString("\nSource context:\n")
		b.WriteString(exc)
	}
	return b.String()
}

// Excerpt returns the source window around line in file, with the failing
// line marked. The window is clamped so it never starts before line 1.
// Returns "" if the file cannot be read.
func Excerpt(file string, line int) string {
	if file == "" {
		return ""
	}
	f, err := os.Open(file)
	if err != nil {
		return ""
	}
	defer f.Close()
	first := line - excerptRadius
	if first < 1 {
		first = 1
	}
	last := line + excerptRadius
	var b strings.Builder
	scanner := bufio.NewScanner(f)
	//source lines can be long; the default scanner limit is too small
	scanner.Buffer(make([]byte, 0, 256*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		if n < first {
			continue
		}
		if n > last {
			break
		}
		mark := "   "
		if n == line {
			mark = ">>>"
		}
		fmt.Fprintf(&b, "%s %5d: %s\n", mark, n, scanner.Text())
	}
	return b.String()
}
