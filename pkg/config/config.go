// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package config builds the immutable configuration for a provisioning run.
// It is constructed once at startup from the environment and passed by
// reference; nothing in this module reads config from ambient globals.
package config

import (
	"fmt"
	"os"
	fp "path/filepath"
	"strconv"

	"provdiag/pkg/common/strs"
	"provdiag/pkg/log/level"
)

const (
	DefaultLogDir     = "/var/log"
	DefaultMaxErrSize = 10 * 1024 * 1024 //bytes
	DefaultRetain     = 5
	//Thresholds below which the host is considered critically low. Units
	//match the source scripts: free memory in MB, free disk in KB.
	DefaultMinFreeMemMB  = 1024
	DefaultMinFreeDiskKB = 102400
)

type Config struct {
	//Primary activity log path.
	LogFile string
	//Minimum level for emission; see pkg/log/level.
	MinLevel level.Level
	//Error log path. Rotated per MaxErrSize/Retain before each error append.
	ErrorLog string
	//Rotation policy for ErrorLog.
	MaxErrSize int64
	Retain     int
	//Dir receiving state snapshots.
	DiagDir string
	//Resource guard thresholds.
	MinFreeMemMB  uint64
	MinFreeDiskKB uint64
	//Compress rotated error logs with xz.
	CompressRotated bool
}

// FromEnv reads the recognized environment variables (LOG_FILE,
// MIN_LOG_LEVEL, ERROR_LOG, ERROR_LOG_MAX_SIZE, RETAIN_COUNT, DIAG_DIR,
// MIN_FREE_MEM, MIN_FREE_DISK, COMPRESS_ROTATED), applying defaults for any
// that are unset. Malformed values are an error - better to stop before
// provisioning starts than to run with a guessed config.
func FromEnv() (*Config, error) {
	c := &Config{
		LogFile:       fp.Join(DefaultLogDir, strs.ActivityLogName()),
		MinLevel:      level.Info,
		ErrorLog:      fp.Join(DefaultLogDir, strs.ErrLogName()),
		MaxErrSize:    DefaultMaxErrSize,
		Retain:        DefaultRetain,
		DiagDir:       fp.Join(DefaultLogDir, strs.DiagSubdir()),
		MinFreeMemMB:  DefaultMinFreeMemMB,
		MinFreeDiskKB: DefaultMinFreeDiskKB,
	}
	if v := os.Getenv(strs.LogFileEnv()); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(strs.MinLevelEnv()); v != "" {
		l, err := level.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", strs.MinLevelEnv(), err)
		}
		c.MinLevel = l
	}
	if v := os.Getenv(strs.ErrLogEnv()); v != "" {
		c.ErrorLog = v
	}
	if v := os.Getenv(strs.DiagDirEnv()); v != "" {
		c.DiagDir = v
	}
	var err error
	if c.MaxErrSize, err = intVar(strs.ErrLogMaxSizeEnv(), c.MaxErrSize); err != nil {
		return nil, err
	}
	retain, err := intVar(strs.RetainCountEnv(), int64(c.Retain))
	if err != nil {
		return nil, err
	}
	c.Retain = int(retain)
	mem, err := intVar(strs.MinFreeMemEnv(), int64(c.MinFreeMemMB))
	if err != nil {
		return nil, err
	}
	c.MinFreeMemMB = uint64(mem)
	disk, err := intVar(strs.MinFreeDiskEnv(), int64(c.MinFreeDiskKB))
	if err != nil {
		return nil, err
	}
	c.MinFreeDiskKB = uint64(disk)
	if v := os.Getenv(strs.CompressRotatedEnv()); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", strs.CompressRotatedEnv(), err)
		}
		c.CompressRotated = b
	}
	return c, nil
}

func intVar(name string, dflt int64) (int64, error) {
	v := os.Getenv(name)
	if v == "" {
		return dflt, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: bad value %q", name, v)
	}
	return n, nil
}
