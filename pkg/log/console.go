// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"os"
)

type consoleLog struct {
	color bool
	next  StackableLogger
}

// Adds a consoleLog to the stack. With color set, each line is wrapped in the
// ANSI color for its level (INFO green, WARN yellow, ERROR red, DEBUG blue).
// The driver attaches a colored console when the minimum level has been
// explicitly lowered to DEBUG.
func AddConsoleLog(color bool) {
	_ = AddLogger(&consoleLog{color: color}, true)
}

var _ StackableLogger = (*consoleLog)(nil)

func (l *consoleLog) AddEntry(e LogEntry) {
	if l.color {
		fmt.Fprintln(os.Stderr, e.StringColored())
	} else {
		fmt.Fprintln(os.Stderr, e.String())
	}
	if l.next != nil {
		l.next.AddEntry(e)
	}
}

func (l *consoleLog) ForwardTo(sl StackableLogger) {
	if l.next == nil || sl == nil {
		l.next = sl
	} else {
		panic("next already set")
	}
}

const ConsoleLogIdent = "consoleLog"

func (*consoleLog) Ident() string           { return ConsoleLogIdent }
func (l *consoleLog) Next() StackableLogger { return l.next }

func (l *consoleLog) Finalize() {
	if l.next != nil {
		l.next.Finalize()
	}
}
