// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package handler is the entry point for trapped provisioning failures. It
// sequences the diagnostic stages - rotate the error log, record the
// summary, append the stack trace, capture a state snapshot, attempt
// recovery, check resources, notify the admin - then terminates the process
// with the failing command's exit code. Each stage is best-effort; the
// sequence itself is mandatory and strictly linear.
package handler

import (
	"fmt"
	"os"
	fp "path/filepath"
	"time"

	"provdiag/pkg/config"
	"provdiag/pkg/diag"
	"provdiag/pkg/errid"
	"provdiag/pkg/housekeeping"
	"provdiag/pkg/log"
	"provdiag/pkg/log/level"
	"provdiag/pkg/notify"
	"provdiag/pkg/recovery"
	"provdiag/pkg/resource"
	"provdiag/pkg/rotate"
	"provdiag/pkg/snapshot"
	"provdiag/pkg/steps"
	"provdiag/pkg/trace"
)

// Stage of failure processing. Transitions are linear and unconditional;
// Armed is the only state reachable before a failure, Terminated the only
// exit state.
type State int

const (
	Armed State = iota
	Triggered
	Logging
	Tracing
	Snapshotting
	Recovering
	Guarding
	Notifying
	Terminated
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Triggered:
		return "triggered"
	case Logging:
		return "logging"
	case Tracing:
		return "tracing"
	case Snapshotting:
		return "snapshotting"
	case Recovering:
		return "recovering"
	case Guarding:
		return "guarding"
	case Notifying:
		return "notifying"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

type Handler struct {
	cfg   *config.Config
	snap  *snapshot.Snapshotter
	guard *resource.Guard
	state State
}

func New(cfg *config.Config) *Handler {
	snap := &snapshot.Snapshotter{Dir: cfg.DiagDir}
	return &Handler{
		cfg:   cfg,
		snap:  snap,
		guard: resource.New(cfg.MinFreeMemMB, cfg.MinFreeDiskKB, fp.Dir(cfg.ErrorLog), snap),
	}
}

func (h *Handler) State() State { return h.state }

// Report processes one trapped failure and does not return under the
// default fatal action - the process exits with the failing command's exit
// code, or 1 if none was captured. Runs at most once; a re-entry is logged
// and ignored rather than allowed to cascade.
func (h *Handler) Report(f *steps.Failure) {
	if h.state != Armed {
		log.Warnf("error handler re-entered in state %s, ignoring", h.state)
		return
	}
	h.state = Triggered
	ev := diag.ErrorEvent{
		ID:       errid.New(),
		Time:     time.Now(),
		Command:  f.Command,
		ExitCode: f.ExitCode,
		Line:     f.Line,
		Function: f.Function,
		File:     f.File,
		Pid:      os.Getpid(),
		Frames:   f.Frames,
	}
	code := ev.ExitCode
	if code == 0 {
		code = 1
	}

	h.state = Logging
	pol := rotate.Policy{
		MaxSize:  h.cfg.MaxErrSize,
		Retain:   h.cfg.Retain,
		Compress: h.cfg.CompressRotated,
	}
	if err := rotate.RotateIfNeeded(h.cfg.ErrorLog, pol); err != nil {
		log.Warnf("error log rotation: %s", err)
	}
	summary := fmt.Sprintf("command %q failed with exit code %d at line %d in %s (error id %s)",
		ev.Command, ev.ExitCode, ev.Line, ev.Function, ev.ID)
	log.Errorf("%s", summary)
	le := log.LogEntry{Time: ev.Time, Lvl: level.Error, Msg: summary}
	h.appendErrLog(le.String() + "\n")

	h.state = Tracing
	h.appendErrLog(trace.Format(ev) + "\n")

	h.state = Snapshotting
	if path, err := h.snap.Capture(ev.ID); err != nil {
		log.Warnf("state snapshot: %s", err)
	} else {
		log.Infof("state snapshot written to %s", path)
		h.appendErrLog(fmt.Sprintf("State snapshot: %s\n\n", path))
	}

	h.state = Recovering
	recovery.Attempt(f.Category, f.Command)

	h.state = Guarding
	if h.guard.CheckAndEscalate(ev.ID) == resource.Critical {
		log.Errorf("host resources critically low, see emergency snapshot")
	}

	h.state = Notifying
	notify.Notify(&ev, h.cfg.ErrorLog)

	h.state = Terminated
	housekeeping.Shutdowns.Perform(false)
	log.Exitf(code, "provisioning aborted: %s", summary)
}

// Error log sections are append-only; failure to write falls back to
// stderr so the record is never silently lost.
func (h *Handler) appendErrLog(text string) {
	f, err := os.OpenFile(h.cfg.ErrorLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening error log %s: %s\n%s", h.cfg.ErrorLog, err, text)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		fmt.Fprintf(os.Stderr, "writing error log %s: %s\n%s", h.cfg.ErrorLog, err, text)
	}
}
