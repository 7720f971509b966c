// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package fileutil

import (
	"bytes"
	"io/ioutil"
	fp "path/filepath"
	"testing"
)

func TestToMegs(t *testing.T) {
	if got := ToMegs(1024 * 1024); got != "1.00MB" {
		t.Errorf("got %s", got)
	}
	if got := ToMegs(1536 * 1024); got != "1.50MB" {
		t.Errorf("got %s", got)
	}
}

func TestDirSizeM(t *testing.T) {
	tmp := t.TempDir()
	if got := DirSizeM(tmp); got != "0 (no files)" {
		t.Errorf("empty dir: %s", got)
	}
	err := ioutil.WriteFile(fp.Join(tmp, "f"), bytes.Repeat([]byte("y"), 1024*1024), 0644)
	if err != nil {
		t.Fatal(err)
	}
	if got := DirSizeM(tmp); got != "1.00MB" {
		t.Errorf("got %s", got)
	}
}
