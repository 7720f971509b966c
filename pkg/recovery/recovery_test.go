// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package recovery

import (
	"strings"
	"testing"

	"provdiag/pkg/log/testlog"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		cmd  string
		want Category
	}{
		{"pkg_add curl", Package},
		{"pkgin -y install tmux", Package},
		{"apt-get install -y nginx", Package},
		{"/usr/sbin/pkg_add curl", Package},
		{"mount /dev/wd0e /mnt", Mount},
		{"umount /mnt", Mount},
		{"cp /a /b", FileOp},
		{"rm -rf /tmp/x", FileOp},
		{"chown root:wheel /etc/rc.local", FileOp},
		{"echo hi", Unknown},
		{"", Unknown},
		{"'unterminated", Unknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.cmd); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.cmd, got, tc.want)
		}
	}
}

func TestCategoryJson(t *testing.T) {
	var c Category
	if err := c.UnmarshalJSON([]byte(`"Mount"`)); err != nil || c != Mount {
		t.Errorf("got %s, %v", c, err)
	}
	if err := c.UnmarshalJSON([]byte(`"bogus"`)); err == nil {
		t.Error("bogus category must not unmarshal")
	}
	buf, err := FileOp.MarshalJSON()
	if err != nil || string(buf) != `"fileop"` {
		t.Errorf("got %s, %v", buf, err)
	}
}

func TestAttemptPackage(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	m := make(testlog.CmdMap)
	probe := testlog.CmdKey([]string{"pkg_delete", "-f", "curl"})
	m[probe] = testlog.HijackerData{
		NoRun:  true,
		Result: testlog.Result{Res: "removed", Success: true},
	}
	tlog.UseMappedCmdHijacker(m)
	Attempt(Unknown, "pkg_add curl")
	if m[probe].RunCount != 1 {
		t.Errorf("pkg_delete probe ran %d times", m[probe].RunCount)
	}
	tlog.Freeze()
	if !strings.Contains(tlog.Buf.String(), "removing partially installed package curl") {
		t.Errorf("probe not logged:\n%s", tlog.Buf.String())
	}
}

func TestAttemptMount(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	m := make(testlog.CmdMap)
	probe := testlog.CmdKey([]string{"fsck", "-n", "/dev/x"})
	m[probe] = testlog.HijackerData{
		NoRun:  true,
		Result: testlog.Result{Res: "clean", Success: true},
	}
	tlog.UseMappedCmdHijacker(m)
	Attempt(Unknown, "mount /dev/x /mnt")
	if m[probe].RunCount != 1 {
		t.Errorf("fsck probe ran %d times", m[probe].RunCount)
	}
}

//a failing probe is swallowed, not escalated
func TestAttemptProbeFails(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	m := make(testlog.CmdMap)
	probe := testlog.CmdKey([]string{"ls", "-la", "/b"})
	m[probe] = testlog.HijackerData{
		NoRun:  true,
		Result: testlog.Result{Res: "no such file", Success: false},
	}
	tlog.UseMappedCmdHijacker(m)
	Attempt(FileOp, "cp /a /b")
	tlog.Freeze()
	if tlog.ErrCount != 0 {
		t.Error("probe failure must not log at ERROR")
	}
	if !strings.Contains(tlog.Buf.String(), "cannot list /b") {
		t.Errorf("probe failure not logged:\n%s", tlog.Buf.String())
	}
}

func TestAttemptUnmatched(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	m := make(testlog.CmdMap)
	tlog.UseMappedCmdHijacker(m)
	Attempt(Unknown, "echo hi")
	tlog.Freeze()
	if len(m) != 0 {
		t.Errorf("unmatched command must run nothing, ran %v", m)
	}
	if !strings.Contains(tlog.Buf.String(), "no action known") {
		t.Errorf("expected no-action note:\n%s", tlog.Buf.String())
	}
}
