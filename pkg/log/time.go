// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"time"
)

//Format used inside log lines: yyyy-mm-dd hh:mm:ss
const TimestampLayout = "2006-01-02 15:04:05"

//Format used in file names, rotation suffixes, error ids: yyyymmdd_hhmmss
const StampLayout = "20060102_150405"

//Returns a string containing a timestamp like StampLayout.
func Stamp() string {
	t := time.Now()
	return t.Format(StampLayout)
}
