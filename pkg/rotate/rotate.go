// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package rotate bounds the error log's on-disk growth. Rotation runs
// synchronously immediately before an error-event append, never on ordinary
// log writes - diagnostic history is bounded without touching the primary
// audit trail.
package rotate

import (
	"fmt"
	"io"
	"os"
	fp "path/filepath"
	"sort"
	"time"

	"github.com/ulikunitz/xz"

	"provdiag/pkg/log"
)

// Policy is the size/retention rule for one log file.
type Policy struct {
	//Rotate once the file exceeds this many bytes.
	MaxSize int64
	//Keep at most this many archived rotations; older ones are deleted.
	Retain int
	//Compress archives with xz, producing <path>.<stamp>.xz.
	Compress bool
}

// RotateIfNeeded checks the file at path against pol. If it exists and
// exceeds pol.MaxSize, it is renamed to path.<stamp>, a fresh empty file with
// restrictive permissions is created at path, and archives beyond pol.Retain
// are pruned oldest-first by mtime. Anything that goes wrong is reported to
// the caller but leaves the active log usable.
func RotateIfNeeded(path string, pol Policy) error {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if fi.Size() <= pol.MaxSize {
		return nil
	}
	archived := archiveName(path)
	if err := os.Rename(path, archived); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	f.Close()
	if pol.Compress {
		if err := compress(archived); err != nil {
			//archive stays uncompressed; still pruned below
			log.Warnf("compressing %s: %s", archived, err)
		}
	}
	return Prune(path, pol.Retain)
}

// Archive name is <path>.<yyyymmdd_hhmmss>. Two rotations within one second
// would collide, so a numeric suffix disambiguates.
func archiveName(path string) string {
	name := path + "." + time.Now().Format(log.StampLayout)
	candidate := name
	for n := 1; ; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			if _, err := os.Stat(candidate + ".xz"); os.IsNotExist(err) {
				return candidate
			}
		}
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
}

// Prune deletes archived rotations of path beyond retain, oldest-first by
// modification time. Exported for housekeeping use.
func Prune(path string, retain int) error {
	list, err := archives(path)
	if err != nil {
		return err
	}
	if len(list) <= retain {
		return nil
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].mtime.Before(list[j].mtime)
	})
	var firstErr error
	for _, a := range list[:len(list)-retain] {
		if err := os.Remove(a.path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type archive struct {
	path  string
	mtime time.Time
}

// Existing rotations of path: any sibling named path.<suffix>, excluding the
// active file itself.
func archives(path string) ([]archive, error) {
	matches, err := fp.Glob(path + ".*")
	if err != nil {
		return nil, err
	}
	var out []archive
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || fi.IsDir() {
			continue
		}
		out = append(out, archive{path: m, mtime: fi.ModTime()})
	}
	return out, nil
}

// ArchiveCount returns the number of rotations of path currently on disk.
func ArchiveCount(path string) int {
	a, err := archives(path)
	if err != nil {
		return 0
	}
	return len(a)
}

func compress(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(path+".xz", os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	w, err := xz.NewWriter(out)
	if err != nil {
		out.Close()
		return err
	}
	_, err = io.Copy(w, in)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path + ".xz")
		return err
	}
	return os.Remove(path)
}
