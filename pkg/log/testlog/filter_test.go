// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package testlog

import (
	"fmt"
	"testing"

	"provdiag/pkg/log"
)

//func FilterInfo() LineFilterer
func TestFilterInfo(t *testing.T) {
	tlog := NewTestLog(t, true, false)
	log.Infof("test info")
	log.Errorf("test err")
	tlog.Freeze()
	filtered := tlog.Filter(FilterInfo())
	if len(filtered) != 1 {
		t.Errorf("need 1 got %#v", filtered)
	}

	if filtered[0] != "INF:test info" {
		t.Errorf("mismatch %#v", filtered)
	}
}

//func FilterLvlPfx(l level.Level, pfx string) LineFilterer
func TestFilterInfoPfx(t *testing.T) {
	tlog := NewTestLog(t, true, false)
	log.Infof("test info")
	log.Errorf("test err")
	log.Infof("2 test info")
	tlog.Freeze()
	filtered := tlog.Filter(FilterPfx("INF:test"))
	if len(filtered) != 1 {
		t.Errorf("need 1 got %#v", filtered)
	}

	if filtered[0] != "INF:test info" {
		t.Errorf("mismatch %#v", filtered)
	}
	if tlog.Buf.Len() != 0 {
		t.Error("buffer must be empty")
	}
}

func ExampleFilterPfx() {
	//hack - necessary since example funcs take no args. always use the t passed in.
	t := &testing.T{}
	tlog := NewTestLog(t, true, false)
	log.Infof("test info")
	log.Errorf("test err")
	log.Infof("2 test info")
	log.Infof("test info 2")
	tlog.Freeze()
	filtered := tlog.Filter(FilterPfx("INF:test"))
	fmt.Println(filtered[0])
	//output: INF:test info
}
