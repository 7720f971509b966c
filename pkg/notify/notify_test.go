// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package notify

import (
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"

	"provdiag/pkg/diag"
	"provdiag/pkg/log"
	"provdiag/pkg/log/testlog"
)

func testEvent() *diag.ErrorEvent {
	return &diag.ErrorEvent{
		ID:       "20260828_101500_host_abcd1234",
		Time:     time.Date(2026, 8, 28, 10, 15, 0, 0, time.UTC),
		Command:  "cp /a /b",
		ExitCode: 1,
		Line:     42,
		Function: "setup_dotfiles",
		Pid:      777,
	}
}

func TestNotify(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	lookPath = func(name string) (string, error) {
		if name == "mail" {
			return "/usr/bin/mail", nil
		}
		return "", fmt.Errorf("%s not found", name)
	}
	defer func() { lookPath = exec.LookPath }()
	ev := testEvent()
	m := make(testlog.CmdMap)
	key := testlog.CmdKey([]string{"/usr/bin/mail", "-s", "provisioning failure " + ev.ID, "root"})
	m[key] = testlog.HijackerData{
		NoRun:  true,
		Result: testlog.Result{Success: true},
	}
	tlog.UseMappedCmdHijacker(m)
	Notify(ev, "/var/log/provision_error.log")
	if m[key].RunCount != 1 {
		t.Errorf("mail ran %d times", m[key].RunCount)
	}
	tlog.Freeze()
	if !strings.Contains(tlog.Buf.String(), "notification sent to root") {
		t.Errorf("missing confirmation:\n%s", tlog.Buf.String())
	}
}

func TestNotifyNoMailer(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	lookPath = func(string) (string, error) { return "", fmt.Errorf("not found") }
	defer func() { lookPath = exec.LookPath }()
	m := make(testlog.CmdMap)
	tlog.UseMappedCmdHijacker(m)
	Notify(testEvent(), "/var/log/provision_error.log")
	tlog.Freeze()
	if len(m) != 0 {
		t.Errorf("nothing must run without a mailer, ran %v", m)
	}
	if tlog.ErrCount != 0 {
		t.Error("missing mailer is not an error")
	}
}

func TestBody(t *testing.T) {
	b := body(testEvent(), "/var/log/provision_error.log")
	for _, want := range []string{
		"Error ID:   20260828_101500_host_abcd1234",
		"Command:    cp /a /b",
		"line 42 in setup_dotfiles",
		"/var/log/provision_error.log",
	} {
		if !strings.Contains(b, want) {
			t.Errorf("body missing %q:\n%s", want, b)
		}
	}
	if strings.Contains(b, "Activity log:") {
		t.Errorf("activity log pointer without a file sink:\n%s", b)
	}
}

//with a file sink registered, the mail also points at the activity log
func TestBodyActivityLog(t *testing.T) {
	if err := log.SetAttr("Filename", "/var/log/provision.log"); err != nil {
		t.Fatal(err)
	}
	defer log.ClearAttrs()
	b := body(testEvent(), "/var/log/provision_error.log")
	if !strings.Contains(b, "Activity log:\n  /var/log/provision.log") {
		t.Errorf("activity log pointer missing:\n%s", b)
	}
}
