// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"provdiag/pkg/log/level"
)

// A type of logger which can be chained/stacked, each adding different
// functionalities. Events can go to a file, to the console, or just into
// memory - and this is transparent to the user.
//
// Note that normal logging should go through non-member functions in this
// package - Infof, Errorf, Fatalf, etc. End users do not need to know the
// details here.
type StackableLogger interface {
	//Add an entry to the log. Must call the same method on the next log in the
	// stack (if not nil).
	AddEntry(e LogEntry)

	// Call to chain one logger to another. It must be an error to call this
	// method on a logger to which another has already been chained.
	ForwardTo(StackableLogger)

	// Returns a string identifying the type of logger, for purposes of ensuring
	// no duplicates in stack.
	Ident() string
	// Returns next StackableLogger or nil
	Next() StackableLogger
	// Finalizes any outstanding entries and releases resources (close file,
	// etc). Must call the same method on the next log in the stack (if not
	// nil).
	Finalize()
}

// Top logger on the stack. Note that any functions accessing logStack,
// logStack.Next(), etc MUST honor the mutex logStackMtx.
var logStack StackableLogger = &memLog{}

// Mutex protecting access to logStack. Must be locked while making changes to
// the stack or adding entries.
var logStackMtx sync.Mutex

// Minimum level for emission. Entries below it are dropped before any
// formatting or locking happens. Atomic so the filter check stays lock-free.
var minLevel = int32(level.Info)

// SetMinLevel sets the process-wide minimum level. Entries below it become
// no-ops - no formatting, no locking, no I/O.
func SetMinLevel(l level.Level) { atomic.StoreInt32(&minLevel, int32(l)) }

// MinLevel returns the process-wide minimum level.
func MinLevel() level.Level { return level.Level(atomic.LoadInt32(&minLevel)) }

type stackErr struct {
	Id string
}

func (se *stackErr) Error() string {
	return fmt.Sprintf("Duplicate logger %s in stack", se.Id)
}

// Flushes data, closes files, etc
func Finalize() {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.Finalize()
}

// Restores the log stack to initial state. Calls Finalize on existing
// logger(s), then replaces the existing stack with a memLog. Also restores
// the default minimum level.
func DefaultLogStack() {
	NewLogStack(&memLog{})
	SetMinLevel(level.Info)
}

//Calls Finalize on existing logger(s), then sets newLog as the topmost logger.
func NewLogStack(newLog StackableLogger) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if logStack != nil {
		logStack.Finalize()
	}
	logStack = newLog
	ClearAttrs()
}

// Add a logger to the stack. Anything that requires initialization must
// already be initialized. If addPrevious is true, events already logged in
// a MemLog are added to this logger.
//
// End users
//
// End users should prefer the AddXLog() method - AddFileLog(),
// AddConsoleLog(), etc. AddLogger() is intended to be called by a
// StackableLogger's AddXLog() rather than by end users.
//
// Errors
//
// The only possible error is if the new logger is the same type as an existing
// one.
func AddLogger(sl StackableLogger, addPrevious bool) error {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if addPrevious {
		addPreviousEvents(sl, logStack)
	}
	sl.ForwardTo(logStack)
	err := ForwardFrom(sl, logStack)
	if err == nil {
		logStack = sl
	}
	return err
}

// Verifies that the new logger is not a duplicate of another in the stack.
// Called by AddLogger. Recursive.
func ForwardFrom(newLogger, sl StackableLogger) error {
	if newLogger.Ident() == sl.Ident() {
		return &stackErr{Id: sl.Ident()}
	}
	next := sl.Next()
	if next != nil {
		return ForwardFrom(newLogger, next)
	}
	return nil
}

// Remove a log with the given id from the stack
func RemoveLogger(id string) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	l := logStack
	var prev StackableLogger = nil
	for l != nil {
		next := l.Next()
		if l.Ident() == id {
			l.ForwardTo(nil)
			l.Finalize()
			if prev != nil {
				prev.ForwardTo(next)
			}
			break
		}
		prev = l
		l = next
	}
}

// LogEntry is the primary record type for StackableLogger. As with
// StackableLogger, end users do not use this. Entries are immutable once
// constructed; sinks format but never mutate them.
type LogEntry struct {
	Time time.Time `json:"t"`
	Lvl  level.Level
	Msg  string
	Args []interface{} `json:",omitempty"`
}

// Backend of Infof(), Errorf(), Fatalf(), etc. Drops suppressed levels, then
// translates args to a LogEntry and inserts it into the topmost log.
func LeveledLogf(lvl level.Level, f string, va ...interface{}) {
	if int32(lvl) < atomic.LoadInt32(&minLevel) {
		return
	}
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.AddEntry(LogEntry{
		Time: time.Now(),
		Lvl:  lvl,
		Msg:  f,
		Args: va,
	})
}

// Renders the entry in the on-disk format: [timestamp] [LEVEL] message.
// Msg is only treated as a format string when there are args to interpolate;
// an arg-free message is written verbatim so '%' in a failing command's text
// survives into the forensic record.
func (le *LogEntry) String() string {
	f := "[" + le.Time.Format(TimestampLayout) + "] [" + le.Lvl.String() + "] " + le.Msg
	if len(le.Args) == 0 {
		return f
	}
	return fmt.Sprintf(f, le.Args...)
}

// Like String, but wraps the line in the ANSI color for the entry's level.
// Used by the console sink.
func (le *LogEntry) StringColored() string {
	c := le.Lvl.Color()
	if c == "" {
		return le.String()
	}
	return c + le.String() + level.ColorReset
}

// May be called when attaching a new logger, in which case it looks
// for a MemLog in the stack and inserts all its entries into the new log
// before the new log is attached to the stack.
func addPreviousEvents(newlog, current StackableLogger) {
	_, isMem := newlog.(*memLog)
	if isMem {
		//should only be one memLog, so we'd be copying to ourselves
		return
	}
	ml := FindInStack(MemLogIdent)
	if ml != nil {
		mem, ok := ml.(*memLog)
		if ok {
			entries := mem.Entries()
			for _, e := range entries {
				newlog.AddEntry(e)
			}
		}
	}
}

// Return true if a log in the stack matches given id
func InStack(id string) bool {
	return FindInStack(id) != nil
}

// Return StackableLogger matching id, or nil
func FindInStack(id string) StackableLogger {
	l := logStack
	for l != nil {
		if l.Ident() == id {
			return l
		}
		l = l.Next()
	}
	return nil
}
