// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package testlog hijacks the output of provdiag/pkg/log, and can hijack
// log.Cmd(). By default, this output prints through testing functions but
// it can be stored in a buffer as well - for example, for analysis as part of
// the test.
//
// Cmd() hijacking (via UseMappedCmdHijacker) can be used to ensure that code
// handling conditions not feasibly reproducible locally can be tested -
// absent diagnostic tools, failing recovery probes, and so on.
package testlog

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"provdiag/pkg/log"
	"provdiag/pkg/log/level"
)

//Conforms to log.StackableLogger interface. Constructed via NewTestLog().
type TstLog struct {
	events        leChan
	t             *testing.T    //log here if Buf is nil
	Buf           *bytes.Buffer //if non-nil, output goes here
	LogCount      int           //counts non-fatal entries
	ErrCount      int           //counts entries at ERROR
	FatalCount    int           //counts entries at FATAL
	FatalIsNotErr bool          //if true, do not call t.Errorf() for Fatal()
	freeze        bool          //do not write any more to Buf
	stderr        bool          //also immediately write to stderr
	mu            sync.RWMutex  //still needed, not 1:1 match for mutex in log pkg
	bgWg          sync.WaitGroup
}

//Returns a new TstLog. If bufferLog is true, logging goes to a buffer rather
//than passing directly to t.Log()/t.Error(). The minimum level is lowered to
//DEBUG so tests see everything. Do not share one TstLog between tests -
//create a new one each time.
func NewTestLog(t *testing.T, bufferLog, stderr bool) (tlog *TstLog) {
	tlog = &TstLog{
		events: make(leChan, 1024),
		t:      t,
		stderr: stderr,
	}
	if bufferLog {
		tlog.Buf = new(bytes.Buffer)
	}
	tlog.bgWg.Add(1)
	go tlog.bgProc()
	log.NewLogStack(tlog)
	log.SetMinLevel(level.Debug)
	log.SetFatalAction(log.FailAction{Terminator: func(int) {}})
	return
}

var _ log.StackableLogger = (*TstLog)(nil)

func (tlog *TstLog) AddEntry(e log.LogEntry) {
	tlog.mu.RLock()
	freeze := tlog.freeze
	tlog.mu.RUnlock()
	if freeze {
		return
	}
	e.Msg = lvlPfx(e.Lvl) + e.Msg
	if tlog.events != nil {
		tlog.events <- e
	} else {
		tlog.t.Helper()
		tlog.handleEvt(e)
	}
}

//prefix identifying the level, used by the Filter* functions
func lvlPfx(l level.Level) string {
	switch l {
	case level.Debug:
		return "DBG:"
	case level.Info:
		return "INF:"
	case level.Warn:
		return "WRN:"
	case level.Error:
		return "ERR:"
	case level.Fatal:
		return ">>FATAL()<< "
	}
	return "???:"
}

const TstLogIdent = "tstLog"

func (*TstLog) Ident() string                      { return TstLogIdent }
func (tl *TstLog) Next() log.StackableLogger       { return nil }
func (*TstLog) Finalize()                          {}
func (tl *TstLog) ForwardTo(_ log.StackableLogger) {}

type leChan chan log.LogEntry

//background process started by NewTestLog()
func (tlog *TstLog) bgProc() {
	tlog.t.Helper()
	defer tlog.bgWg.Done()
	for evt := range tlog.events {
		tlog.handleEvt(evt)
	}
}

func (tlog *TstLog) handleEvt(evt log.LogEntry) {
	tlog.t.Helper()
	//an arg-free Msg is literal text, not a format string; escape it so
	//Errorf/Logf/Fprintf below cannot reinterpret '%' in logged commands
	if len(evt.Args) == 0 {
		evt.Msg = strings.ReplaceAll(evt.Msg, "%", "%%")
	}
	f := "@" + evt.Time.Format(stampMilli) + ": " + evt.Msg
	switch evt.Lvl {
	case level.Fatal:
		tlog.FatalCount++
		if !tlog.FatalIsNotErr {
			tlog.t.Errorf(f, evt.Args...)
			return
		}
	case level.Error:
		tlog.ErrCount++
		tlog.LogCount++
	default:
		tlog.LogCount++
	}
	if tlog.stderr {
		fmt.Fprintf(os.Stderr, f+"\n", evt.Args...)
	}
	if tlog.Buf != nil {
		fmt.Fprintf(tlog.Buf, evt.Msg+"\n", evt.Args...)
	} else {
		tlog.t.Logf(f, evt.Args...)
	}
}

const stampMilli = "15:04:05.000" //time format used for stderr. like time.StampMilli, but leaves off date

//sometimes used in testing to inject separators
func (tlog *TstLog) Logf(f string, va ...interface{}) {
	tlog.t.Helper()
	tlog.AddEntry(log.LogEntry{
		Time: time.Now(),
		Lvl:  level.Info,
		Msg:  f,
		Args: va,
	})
}

//call at end of test to sync log and shut down bgProc
func (tlog *TstLog) Freeze() {
	tlog.mu.Lock()
	freeze := tlog.freeze
	tlog.mu.Unlock()
	if freeze {
		return
	}
	log.DefaultLogStack()
	log.SetFatalAction(log.DefaultFatal)
	log.Cmd = log.DefaultCmd
	tlog.mu.Lock()
	tlog.freeze = true
	tlog.mu.Unlock()
	if tlog.events != nil {
		close(tlog.events)
		tlog.bgWg.Wait()
		tlog.events = nil
	}
}
