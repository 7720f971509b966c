// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package errid produces the identifier stamped on every failure occurrence.
// The id joins the error-log entry, the stack trace block, and the state
// snapshot file for one event, so it must be distinct across a host's
// lifetime with overwhelming probability. Construction: timestamp to second
// granularity, hostname, and random bytes from github.com/google/uuid.
package errid

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"provdiag/pkg/log"
)

// New returns an id like 20260828_101502_myhost_1a2b3c4d. No external state;
// pure function of current time, host identity, and an entropy source.
func New() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	//strip domain, if any - keeps ids short and filesystem-friendly
	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}
	rand := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return time.Now().Format(log.StampLayout) + "_" + host + "_" + rand
}
