// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//Package fileutil contains various utility functions useful for dealing with
//files and dirs.
package fileutil

import (
	"fmt"
	"os"
	fp "path/filepath"

	"provdiag/pkg/log"
)

const (
	oneM = 1024.0 * 1024.0
)

//Computes size of dir and contents.
func DirSizeM(dir string) string {
	var size int64
	err := fp.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			size += info.Size()
		}
		return err
	})
	if err != nil {
		log.Debugf("Error %s reading size of %s\n", err, dir)
		return "(unknown - error)"
	}
	if size == 0 {
		return "0 (no files)"
	}
	return ToMegs(size)
}

//Converts a size in bytes to megabytes; returns string with suffix 'MB'.
func ToMegs(size int64) string {
	return fmt.Sprintf("%.2fMB", float64(size)/oneM)
}
