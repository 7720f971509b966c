// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package snapshot captures a point-in-time bundle of system diagnostic data
// for offline forensic use. Each data source is an independent fallible
// probe; the snapshot is assembled from whichever probes succeed. A probe
// that shells out runs under a bounded timeout so diagnostic collection can
// never stall the provisioning run indefinitely.
package snapshot

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	fp "path/filepath"
	"strings"
	"time"

	"provdiag/pkg/fileutil"
	"provdiag/pkg/log"
)

//last lines of the system message log included in a snapshot
const syslogTail = 10

const DefaultProbeTimeout = 10 * time.Second

type Snapshotter struct {
	//Dir receiving snapshot files. Created on first capture if absent.
	Dir string
	//Per-probe timeout for probes that shell out. Zero means
	//DefaultProbeTimeout.
	Timeout time.Duration
}

type probe struct {
	name string
	fn   func(s *Snapshotter) (string, error)
}

// Probe order matches the order sections appear in the snapshot file. The
// probe implementations are platform-specific; see probes_linux.go.
var probes = []probe{
	{"Identification", (*Snapshotter).identification},
	{"Memory", (*Snapshotter).memory},
	{"Processes", (*Snapshotter).processes},
	{"File Descriptor Limits", (*Snapshotter).fdLimits},
	{"Network Connections", (*Snapshotter).network},
	{"System Log Tail", (*Snapshotter).syslog},
	{"Mounts", (*Snapshotter).mounts},
	{"Open Files", (*Snapshotter).openFiles},
}

// Capture writes a snapshot file for label under s.Dir and returns its path.
// Per-error captures (label = error id) are named state_<label>.log;
// emergency captures (label = emergency_<id>) are named <label>.state.
// A probe failure omits that section and continues; Capture only errors if
// the snapshot file itself cannot be written.
func (s *Snapshotter) Capture(label string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", err
	}
	path := fp.Join(s.Dir, FileName(label))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return "", err
	}
	defer f.Close()
	for _, p := range probes {
		out, err := p.fn(s)
		if err != nil {
			log.Debugf("snapshot %s: %s probe: %s", label, p.name, err)
			continue
		}
		fmt.Fprintf(f, "=== %s ===\n%s\n", p.name, strings.TrimRight(out, "\n"))
	}
	log.Debugf("snapshot %s written; %s now %s", label, s.Dir, fileutil.DirSizeM(s.Dir))
	return path, nil
}

// FileName maps a label to the snapshot file name.
func FileName(label string) string {
	if strings.HasPrefix(label, "emergency_") {
		return label + ".state"
	}
	return "state_" + label + ".log"
}

//runs a diagnostic tool under the probe timeout. Absent tools error out so
//the section is omitted rather than empty.
func (s *Snapshotter) run(name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", err
	}
	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, ok := log.Cmd(exec.CommandContext(ctx, name, args...))
	if !ok {
		return "", fmt.Errorf("%s failed", name)
	}
	return out, nil
}

//first existing file among candidates, read whole
func readFirst(candidates ...string) (string, error) {
	for _, c := range candidates {
		b, err := ioutil.ReadFile(c)
		if err == nil {
			return string(b), nil
		}
	}
	return "", fmt.Errorf("none of %v readable", candidates)
}
