// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"encoding/json"
	"testing"
	"time"

	"provdiag/pkg/log/level"
)

// Test helper function returning logStack. Only suitable for testing - ignores
// logStackMtx.
func Stack() StackableLogger { return logStack }

func TestMarshalEntry(t *testing.T) {
	T, _ := time.Parse("2006", "1999")
	e := LogEntry{
		Time: T,
		Lvl:  level.Warn,
		Msg:  "test",
	}
	j, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"t":"1999-01-01T00:00:00Z","Lvl":"WARN","Msg":"test"}`
	if string(j) != want {
		t.Errorf("marshal:\nwant %s\n got %s", want, string(j))
	}
}

//'%' in an arg-free message must survive rendering verbatim - entries often
//quote failing command text like "date +%s"
func TestEntryPercentLiteral(t *testing.T) {
	T, _ := time.Parse("2006", "1999")
	e := LogEntry{
		Time: T,
		Lvl:  level.Error,
		Msg:  `command "date +%s > /tmp/stamp" failed`,
	}
	want := `[1999-01-01 00:00:00] [ERROR] command "date +%s > /tmp/stamp" failed`
	if got := e.String(); got != want {
		t.Errorf("render:\nwant %s\n got %s", want, got)
	}
	//with args present, Msg is a format string as before
	e.Msg = "command %q failed"
	e.Args = []interface{}{"date +%s"}
	want = `[1999-01-01 00:00:00] [ERROR] command "date +%s" failed`
	if got := e.String(); got != want {
		t.Errorf("render with args:\nwant %s\n got %s", want, got)
	}
}

func TestSuppressedLevelsAreNoOps(t *testing.T) {
	DefaultLogStack()
	defer DefaultLogStack()
	SetMinLevel(level.Error)
	Debugf("dropped")
	Infof("dropped")
	Warnf("dropped")
	Errorf("kept")
	entries := StoredEntries()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	if entries[0].Lvl != level.Error {
		t.Errorf("wrong level %s", entries[0].Lvl)
	}
}
