// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package steps

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	fp "path/filepath"
	"strings"
	"testing"

	"provdiag/pkg/log/testlog"
	"provdiag/pkg/recovery"

	"github.com/santhosh-tekuri/jsonschema"
)

const testPlan = `{
	"Name": "dotfiles",
	"Steps": [
		{"Name": "make dir", "Command": "mkdir -p {{.Home}}/.cfg"},
		{"Name": "optional", "Command": "false", "IgnoreFailure": true},
		{"Name": "copy rc", "Command": "cp /a /b", "Category": "fileop"}
	]
}`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := fp.Join(t.TempDir(), "plan.json")
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPlan(t *testing.T) {
	p, err := LoadPlan(writePlan(t, testPlan))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "dotfiles" || len(p.Steps) != 3 {
		t.Errorf("bad plan: %#v", p)
	}
	if p.Steps[2].Category != recovery.FileOp {
		t.Errorf("category not decoded: %v", p.Steps[2].Category)
	}
	if !p.Steps[1].IgnoreFailure {
		t.Error("IgnoreFailure not decoded")
	}
}

func TestLoadPlanRejectsEmpty(t *testing.T) {
	if _, err := LoadPlan(writePlan(t, `{"Name":"x","Steps":[]}`)); err != EEmptyPlan {
		t.Errorf("got %v", err)
	}
	if _, err := LoadPlan(writePlan(t, `{"Name":"x","Steps":[{"Name":"y"}]}`)); err != EBadStep {
		t.Errorf("got %v", err)
	}
}

func TestRunSuccess(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	p := &Plan{Name: "ok", Steps: []Step{
		{Name: "one", Command: "true"},
		{Name: "two", Command: "echo {{.Hostname}}", Verbose: true},
	}}
	if f := p.Run(); f != nil {
		t.Fatalf("unexpected failure: %s", f)
	}
	tlog.Freeze()
	if !strings.Contains(tlog.Buf.String(), "plan ok complete") {
		t.Errorf("completion not logged:\n%s", tlog.Buf.String())
	}
}

func TestRunStopsAtFailure(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	marker := fp.Join(t.TempDir(), "after")
	p := &Plan{Name: "failing", Steps: []Step{
		{Name: "pass", Command: "true"},
		{Name: "boom", Command: "sh -c 'exit 7'", Category: recovery.FileOp},
		{Name: "after", Command: "touch " + marker},
	}}
	f := p.Run()
	if f == nil {
		t.Fatal("expected failure")
	}
	if f.Step != "boom" || f.ExitCode != 7 || f.Category != recovery.FileOp {
		t.Errorf("bad failure: %#v", f)
	}
	if f.Line == 0 || f.Function == "" || len(f.Frames) == 0 {
		t.Errorf("failure location not captured: %#v", f)
	}
	if _, err := ioutil.ReadFile(marker); err == nil {
		t.Error("plan continued past failure")
	}
}

func TestRunIgnoresMarkedFailure(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	p := &Plan{Name: "tolerant", Steps: []Step{
		{Name: "optional", Command: "false", IgnoreFailure: true},
		{Name: "real", Command: "true"},
	}}
	if f := p.Run(); f != nil {
		t.Fatalf("ignored failure leaked: %s", f)
	}
	tlog.Freeze()
	if !strings.Contains(tlog.Buf.String(), "ignoring failure of step optional") {
		t.Errorf("ignored failure not logged:\n%s", tlog.Buf.String())
	}
}

func TestMissingCommand(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	p := &Plan{Name: "absent", Steps: []Step{
		{Name: "nonesuch", Command: "provdiag-no-such-tool-xyzzy"},
	}}
	f := p.Run()
	if f == nil {
		t.Fatal("expected failure")
	}
	if f.ExitCode != 1 {
		t.Errorf("start failure should report exit 1, got %d", f.ExitCode)
	}
}

//test against the plan schema
func TestPlanJsonConformance(t *testing.T) {
	schema, err := jsonschema.Compile("schemas/plan.json")
	if err != nil {
		t.Fatal(err)
	}
	t.Run("sample", func(t *testing.T) {
		if err := schema.Validate(bytes.NewReader([]byte(testPlan))); err != nil {
			t.Error(err)
		}
	})
	t.Run("roundtrip", func(t *testing.T) {
		p, err := LoadPlan(writePlan(t, testPlan))
		if err != nil {
			t.Fatal(err)
		}
		j, err := json.Marshal(p)
		if err != nil {
			t.Fatal(err)
		}
		if err := schema.Validate(bytes.NewReader(j)); err != nil {
			t.Error(err)
			t.Logf("json in question: %s\n", j)
		}
	})
}
