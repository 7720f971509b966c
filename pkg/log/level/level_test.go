// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package level

import "testing"

func TestOrdering(t *testing.T) {
	if !(Debug < Info && Info < Warn && Warn < Error && Error < Fatal) {
		t.Error("levels out of order")
	}
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Level{
		"debug":   Debug,
		"INFO":    Info,
		" Warn ":  Warn,
		"warning": Warn,
		"error":   Error,
	} {
		got, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q): %s", in, err)
		}
		if got != want {
			t.Errorf("Parse(%q): got %s want %s", in, got, want)
		}
	}
	if _, err := Parse("verbose"); err == nil {
		t.Error("Parse must reject unknown names")
	}
}

func TestString(t *testing.T) {
	want := map[Level]string{Debug: "DEBUG", Info: "INFO", Warn: "WARN", Error: "ERROR", Fatal: "FATAL"}
	for l, s := range want {
		if l.String() != s {
			t.Errorf("got %s want %s", l.String(), s)
		}
	}
}
