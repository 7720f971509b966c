// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package diag holds the record types shared by the diagnostic subsystem.
package diag

import (
	"runtime"
	"time"
)

// ErrorEvent describes one occurrence of a trapped failure. Write-once; the
// ID is the join key between the error-log entry, the stack-trace block, and
// the state-snapshot file.
type ErrorEvent struct {
	ID       string
	Time     time.Time
	Command  string //text of the failing command
	ExitCode int
	Line     int    //line number at failure
	Function string //enclosing function at failure
	File     string //source file of the failure site
	Pid      int
	Frames   []Frame //call chain, failure point outward
}

// Frame is one entry in the call chain leading to a failure.
type Frame struct {
	Line     int
	Function string
	File     string
}

// CaptureFrames walks the active call stack from the caller outward. skip
// counts additional frames to omit beyond CaptureFrames itself. The stack is
// always finite; the walk stops when no caller frames remain.
func CaptureFrames(skip int) []Frame {
	pc := make([]uintptr, 32)
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc[:n])
	var out []Frame
	for {
		fr, more := frames.Next()
		out = append(out, Frame{Line: fr.Line, Function: fr.Function, File: fr.File})
		if !more {
			break
		}
	}
	return out
}
