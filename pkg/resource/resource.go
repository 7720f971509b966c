// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package resource checks free memory and disk against minimum thresholds
// and escalates when the host is critically low at failure time. Escalation
// means an additional emergency snapshot and a stronger log level; the run
// is already terminating, so nothing here changes control flow.
package resource

import (
	"provdiag/pkg/log"
	"provdiag/pkg/snapshot"
)

type Status int

const (
	OK Status = iota
	Critical
)

func (s Status) String() string {
	if s == Critical {
		return "critical"
	}
	return "ok"
}

type Guard struct {
	//Thresholds. Units match the source scripts: memory in MB, disk in KB.
	MinFreeMemMB  uint64
	MinFreeDiskKB uint64
	//Filesystem checked for free space; the error log's filesystem.
	Path string
	//Snapshotter for emergency captures.
	Snap *snapshot.Snapshotter
	//Readings; overridable in tests. Defaults read the live system.
	FreeMemMB  func() (uint64, error)
	FreeDiskKB func(path string) (uint64, error)
}

func New(minMemMB, minDiskKB uint64, path string, snap *snapshot.Snapshotter) *Guard {
	return &Guard{
		MinFreeMemMB:  minMemMB,
		MinFreeDiskKB: minDiskKB,
		Path:          path,
		Snap:          snap,
		FreeMemMB:     freeMemMB,
		FreeDiskKB:    freeDiskKB,
	}
}

// CheckAndEscalate evaluates the readings. On a breach of either threshold
// it logs at ERROR, captures exactly one emergency snapshot labeled
// emergency_<id>, and returns Critical. Unreadable readings are skipped -
// the guard must never block the handler from terminating.
func (g *Guard) CheckAndEscalate(id string) Status {
	low := false
	if mem, err := g.FreeMemMB(); err != nil {
		log.Debugf("resource guard: free memory unreadable: %s", err)
	} else if mem < g.MinFreeMemMB {
		log.Errorf("critically low memory: %d MB free, minimum %d MB", mem, g.MinFreeMemMB)
		low = true
	}
	if disk, err := g.FreeDiskKB(g.Path); err != nil {
		log.Debugf("resource guard: free disk unreadable: %s", err)
	} else if disk < g.MinFreeDiskKB {
		log.Errorf("critically low disk on %s: %d KB free, minimum %d KB", g.Path, disk, g.MinFreeDiskKB)
		low = true
	}
	if !low {
		return OK
	}
	if g.Snap != nil {
		if path, err := g.Snap.Capture("emergency_" + id); err != nil {
			log.Warnf("emergency snapshot: %s", err)
		} else {
			log.Errorf("emergency snapshot written to %s", path)
		}
	}
	return Critical
}
