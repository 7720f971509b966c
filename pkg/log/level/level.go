// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package level defines log severities. Levels are totally ordered; an entry
// is emitted only if its level is at or above the process-wide minimum held
// by pkg/log.
package level

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Level int

const (
	Debug Level = 10
	Info  Level = 20
	Warn  Level = 30
	Error Level = 40
)

// Fatal is above every normal level so it can never be filtered out.
const Fatal Level = 50

func (l Level) MarshalJSON() ([]byte, error) { return json.Marshal(l.String()) }

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	}
	return fmt.Sprintf("LVL(%d)", int(l))
}

// Parse translates a level name, case-insensitively, into a Level.
func Parse(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return Debug, nil
	case "INFO":
		return Info, nil
	case "WARN", "WARNING":
		return Warn, nil
	case "ERROR":
		return Error, nil
	}
	return 0, fmt.Errorf("unable to translate %q into a Level", s)
}

// ANSI color used for console output: INFO green, WARN yellow, ERROR red,
// DEBUG blue. Anything else renders uncolored.
func (l Level) Color() string {
	switch l {
	case Debug:
		return "\033[0;34m"
	case Info:
		return "\033[0;32m"
	case Warn:
		return "\033[1;33m"
	case Error, Fatal:
		return "\033[0;31m"
	}
	return ""
}

const ColorReset = "\033[0m"
