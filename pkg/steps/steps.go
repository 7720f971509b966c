// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package steps runs an ordered provisioning plan loaded from json. Each
// step is one command; commands first have templating resolved, then are
// split into args via github.com/google/shlex and executed in order.
//
// The plan stops at the first failing step whose failure is not ignorable,
// and Run returns a Failure describing the command, exit code, and the
// location at which the failure was observed. The caller hands that Failure
// to the error handler; nothing in this package terminates the process.
package steps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"os/user"
	"text/template"

	"provdiag/pkg/diag"
	"provdiag/pkg/log"
	"provdiag/pkg/recovery"

	"github.com/google/shlex"
)

// A Step is one provisioning command. Category tells the recovery
// dispatcher which corrective probe applies if the command fails; if left
// unset the command shape decides. IgnoreFailure steps log a warning on
// failure and let the plan continue.
type Step struct {
	Name          string
	Command       string
	Category      recovery.Category `json:",omitempty"`
	IgnoreFailure bool              `json:",omitempty"`
	Verbose       bool              `json:",omitempty"`
}

// A Plan is an ordered sequence of steps, normally loaded from json.
type Plan struct {
	Name  string
	Steps []Step
}

var (
	EEmptyPlan = fmt.Errorf("plan contains no steps")
	EBadStep   = fmt.Errorf("step missing name or command")
)

func LoadPlan(path string) (*Plan, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := new(Plan)
	if err := json.Unmarshal(buf, p); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %s", path, err)
	}
	if len(p.Steps) == 0 {
		return nil, EEmptyPlan
	}
	for _, s := range p.Steps {
		if s.Name == "" || s.Command == "" {
			return nil, EBadStep
		}
	}
	return p, nil
}

// A Failure describes the first non-ignored step failure in a plan, with
// enough context for the error handler to build a full forensic record.
type Failure struct {
	Step     string
	Command  string
	ExitCode int
	Category recovery.Category
	Line     int
	Function string
	File     string
	Frames   []diag.Frame
}

func (f *Failure) Error() string {
	return fmt.Sprintf("step %s: %q exited %d", f.Step, f.Command, f.ExitCode)
}

//Data usable in step command templates.
type StepData struct {
	Hostname string
	User     string
	Home     string
}

func templateData() StepData {
	d := StepData{Home: os.Getenv("HOME")}
	d.Hostname, _ = os.Hostname()
	if u, err := user.Current(); err == nil {
		d.User = u.Username
	}
	return d
}

// Run executes the plan's steps in order. Returns nil if every step
// succeeded (or failed ignorably), else a Failure for the step that
// stopped the plan.
func (p *Plan) Run() *Failure {
	data := templateData()
	log.Infof("running plan %s, %d steps", p.Name, len(p.Steps))
	for i, s := range p.Steps {
		log.Infof("step %d/%d: %s", i+1, len(p.Steps), s.Name)
		code, err := s.run(data)
		if err == nil {
			continue
		}
		if s.IgnoreFailure {
			log.Warnf("ignoring failure of step %s: %s", s.Name, err)
			continue
		}
		f := &Failure{
			Step:     s.Name,
			Command:  s.Command,
			ExitCode: code,
			Category: s.Category,
			Frames:   diag.CaptureFrames(1),
		}
		if len(f.Frames) > 0 {
			f.Line = f.Frames[0].Line
			f.Function = f.Frames[0].Function
			f.File = f.Frames[0].File
		}
		return f
	}
	log.Infof("plan %s complete", p.Name)
	return nil
}

func (s *Step) run(data StepData) (exitCode int, err error) {
	expanded, err := s.applyTmpl(s.Command, data)
	if err != nil {
		return 1, err
	}
	args, err := shlex.Split(expanded)
	if err != nil || len(args) == 0 {
		return 1, fmt.Errorf("step %s: unparseable command %q", s.Name, expanded)
	}
	cmd := exec.Command(args[0], args[1:]...)
	log.Debugf("executing %v", cmd.Args)
	out, err := cmd.CombinedOutput()
	if err == nil {
		if s.Verbose {
			log.Infof("command output: %s", out)
		}
		return 0, nil
	}
	log.Debugf("executing %v: error %s\noutput:\n%s", cmd.Args, err, out)
	exitCode = 1
	if ee, ok := err.(*exec.ExitError); ok {
		exitCode = ee.ExitCode()
	}
	return exitCode, err
}

func (s *Step) applyTmpl(in string, data StepData) (out string, err error) {
	tmpl, err := template.New("").Parse(in)
	if err != nil {
		return "", fmt.Errorf("step %s: parsing templated command %q: %s", s.Name, in, err)
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("step %s: expanding templated command %q: %s", s.Name, in, err)
	}
	out = buf.String()
	if s.Verbose && out != in {
		log.Debugf("template expansion in %s: %s -> %s", s.Name, in, out)
	}
	return
}
