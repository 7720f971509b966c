// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package testlog

import (
	"flag"
)

//Filters log buffer, comparing remaining lines to want. Buffer is left empty.
//Assumes each entry is a single line.
func (tlog *TstLog) LinesMustMatch(lf LineFilterer, want []string) {
	tlog.t.Helper()
	tlog.LinesMustMatchCleaned(lf, nil, want)
}

//Like LinesMustMatch, but alters log lines before comparing to expected input
func (tlog *TstLog) LinesMustMatchCleaned(filterFn LineFilterer, cleanFn LineCleaner, want []string) bool {
	tlog.t.Helper()
	success, _ := tlog.linesMustMatchCleaned(filterFn, cleanFn, want)
	return success
}

func (tlog *TstLog) linesMustMatchCleaned(filterFn LineFilterer, cleanFn LineCleaner, want []string) (success bool, got []string) {
	tlog.Freeze()
	tlog.t.Helper()
	success = true
	if tlog.Buf == nil {
		tlog.t.Error("nil buffer")
		success = false
		return
	}
	b := tlog.Buf.Bytes()
	filtered := tlog.Filter(filterFn)
	tlog.t.Helper()
	if len(filtered) != len(want) {
		tlog.t.Errorf("len mismatch - got %d want %d", len(filtered), len(want))
		success = false
	}
	for i, l := range filtered {
		trimmed := l
		if cleanFn != nil {
			trimmed = cleanFn(l)
		}
		got = append(got, trimmed)
		if i < len(want) && trimmed != want[i] {
			tlog.t.Errorf("\n got %s\nwant %s\nraw[%d]=%s", trimmed, want[i], i, l)
			success = false
		}
	}
	if !success {
		if cleanFn != nil && len(filtered) > 0 {
			cleaned := []string{}
			for _, g := range filtered {
				cleaned = append(cleaned, cleanFn(g))
			}
			tlog.t.Logf("filtered/cleaned:\n%#v", cleaned)
		}
		tlog.t.Logf("wanted:\n%#v", want)
		if *DumpFull {
			if len(b) == 0 {
				tlog.t.Logf("all: <no entries>")
			} else {
				tlog.t.Logf("all:\n%s", string(b))
			}
		}
	}
	return
}

// DumpFull writes the complete log to stderr if the test fails.
//
// Example:
//   go test myPkg -run myTest -dumpFull
var DumpFull = flag.Bool("dumpFull", false, "on failure, write out complete log")
