// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package snapshot

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"provdiag/pkg/log"
)

//timestamp, hostname, kernel version, uptime
func (s *Snapshotter) identification() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Timestamp: %s\n", time.Now().Format(log.TimestampLayout))
	if host, err := os.Hostname(); err == nil {
		fmt.Fprintf(&b, "Hostname: %s\n", host)
	}
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		fmt.Fprintf(&b, "Kernel: %s %s %s\n", cstr(uts.Sysname[:]), cstr(uts.Release[:]), cstr(uts.Version[:]))
	}
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		fmt.Fprintf(&b, "Uptime: %s\n", (time.Duration(si.Uptime) * time.Second).String())
	}
	return b.String(), nil
}

func (s *Snapshotter) memory() (string, error) {
	if out, err := readFirst("/proc/meminfo"); err == nil {
		return out, nil
	}
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return "", err
	}
	unit := uint64(si.Unit)
	return fmt.Sprintf("Total: %d kB\nFree: %d kB\nBuffers: %d kB\nSwap free: %d kB\n",
		uint64(si.Totalram)*unit/1024, uint64(si.Freeram)*unit/1024,
		uint64(si.Bufferram)*unit/1024, uint64(si.Freeswap)*unit/1024), nil
}

func (s *Snapshotter) processes() (string, error) {
	return s.run("ps", "aux")
}

func (s *Snapshotter) fdLimits() (string, error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return "", err
	}
	out := fmt.Sprintf("RLIMIT_NOFILE: cur=%d max=%d\n", rl.Cur, rl.Max)
	if nr, err := readFirst("/proc/sys/fs/file-nr"); err == nil {
		out += "file-nr: " + nr
	}
	return out, nil
}

func (s *Snapshotter) network() (string, error) {
	return s.run("netstat", "-an")
}

func (s *Snapshotter) syslog() (string, error) {
	out, err := readFirst("/var/log/messages", "/var/log/syslog")
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > syslogTail {
		lines = lines[len(lines)-syslogTail:]
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func (s *Snapshotter) mounts() (string, error) {
	if out, err := readFirst("/proc/mounts"); err == nil {
		return out, nil
	}
	return s.run("mount")
}

func (s *Snapshotter) openFiles() (string, error) {
	return s.run("lsof", "-n")
}

//Utsname fields are NUL-padded byte arrays
func cstr(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
