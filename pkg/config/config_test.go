// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package config

import (
	"testing"

	"provdiag/pkg/log/level"
)

func TestDefaults(t *testing.T) {
	c, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if c.MinLevel != level.Info {
		t.Errorf("default min level %s", c.MinLevel)
	}
	if c.MaxErrSize != DefaultMaxErrSize || c.Retain != DefaultRetain {
		t.Errorf("bad rotation defaults %d/%d", c.MaxErrSize, c.Retain)
	}
	if c.MinFreeMemMB != DefaultMinFreeMemMB || c.MinFreeDiskKB != DefaultMinFreeDiskKB {
		t.Errorf("bad threshold defaults %d/%d", c.MinFreeMemMB, c.MinFreeDiskKB)
	}
	if c.CompressRotated {
		t.Error("compression must default off")
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("LOG_FILE", "/tmp/x/activity.log")
	t.Setenv("MIN_LOG_LEVEL", "debug")
	t.Setenv("ERROR_LOG", "/tmp/x/err.log")
	t.Setenv("ERROR_LOG_MAX_SIZE", "100")
	t.Setenv("RETAIN_COUNT", "2")
	t.Setenv("COMPRESS_ROTATED", "true")
	c, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if c.LogFile != "/tmp/x/activity.log" || c.ErrorLog != "/tmp/x/err.log" {
		t.Errorf("paths not honored: %#v", c)
	}
	if c.MinLevel != level.Debug {
		t.Errorf("min level %s", c.MinLevel)
	}
	if c.MaxErrSize != 100 || c.Retain != 2 {
		t.Errorf("rotation overrides not honored: %d/%d", c.MaxErrSize, c.Retain)
	}
	if !c.CompressRotated {
		t.Error("compression not honored")
	}
}

func TestMalformed(t *testing.T) {
	t.Setenv("MIN_LOG_LEVEL", "chatty")
	if _, err := FromEnv(); err == nil {
		t.Error("bad level must be rejected")
	}
	t.Setenv("MIN_LOG_LEVEL", "")
	t.Setenv("ERROR_LOG_MAX_SIZE", "-5")
	if _, err := FromEnv(); err == nil {
		t.Error("negative size must be rejected")
	}
	t.Setenv("ERROR_LOG_MAX_SIZE", "ten")
	if _, err := FromEnv(); err == nil {
		t.Error("non-numeric size must be rejected")
	}
}
