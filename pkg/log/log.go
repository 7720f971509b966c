// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package log is a leveled logging mechanism allowing multiple log sinks,
// outputting to one or more of: the console, a file, memory.
//
// By default, events are retained in memory so they can be re-played into
// new log sinks if/when they are added later on. Entries below the minimum
// level (see SetMinLevel; default INFO) are dropped before any work is done.
//
// Logging is fail-safe, never fail-fast: a sink that cannot write falls back
// to stderr and the process continues.
package log

import (
	"fmt"
	"os"

	"provdiag/pkg/log/level"
)

var logPrefix string

// Sets the log prefix, which is used in the file name and other places. Must
// be set before calling AddFileLog()
func SetPrefix(pfx string) {
	logPrefix = pfx
}

// Gets the log prefix
func GetPrefix() string { return logPrefix }

// Logf emits a message at an explicit level. This is the entry point handed
// to the provisioning layer for ordinary progress reporting.
func Logf(lvl level.Level, f string, va ...interface{}) { LeveledLogf(lvl, f, va...) }

// Debugf is for messages only useful when troubleshooting. Suppressed unless
// the minimum level has been lowered to DEBUG.
func Debugf(f string, va ...interface{}) { LeveledLogf(level.Debug, f, va...) }

// Infof is for routine progress messages.
func Infof(f string, va ...interface{}) { LeveledLogf(level.Info, f, va...) }

// See Infof
func Infoln(va ...interface{}) { Infof(fmt.Sprintln(va...)) }

// See Infof
func Info(message string) { Infof(message) }

// Warnf is for conditions worth an operator's attention that do not stop the
// run.
func Warnf(f string, va ...interface{}) { LeveledLogf(level.Warn, f, va...) }

// Errorf is for failures. Does not terminate; see Fatalf.
func Errorf(f string, va ...interface{}) { LeveledLogf(level.Error, f, va...) }

// If the log stack includes a MemLog, this writes all of its content to stderr.
// no-op otherwise.
func DumpStderr() {
	l := FindInStack(MemLogIdent)
	if l != nil {
		ml := l.(*memLog)
		for _, e := range ml.Entries() {
			fmt.Fprintln(os.Stderr, e.String())
		}
	}
}
