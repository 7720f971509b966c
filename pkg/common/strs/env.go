// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//Abstraction for strings that implementors will likely wish to change.
package strs

type Stringer interface {
	//Prefix used for env vars. Empty by default; the recognized names below
	//match the provisioning scripts verbatim.
	EnvPrefix() string
	//Name of the subdir holding state snapshots and other diagnostic output.
	DiagSubdir() string
	//Default name of the primary activity log.
	ActivityLogName() string
	//Default name of the error log.
	ErrLogName() string
	//Local account notified of error events.
	MailRecipient() string
}

var stringImpl Stringer

//Override defaults.
func SetStringer(b Stringer) { stringImpl = b }

//Prefix used for env vars.
func EnvPrefix() string {
	if stringImpl != nil {
		return stringImpl.EnvPrefix()
	}
	return ""
}

//Name of the subdir holding state snapshots and other diagnostic output.
func DiagSubdir() string {
	if stringImpl != nil {
		return stringImpl.DiagSubdir()
	}
	return "diagnostics"
}

//Default name of the primary activity log.
func ActivityLogName() string {
	if stringImpl != nil {
		return stringImpl.ActivityLogName()
	}
	return "provision.log"
}

//Default name of the error log.
func ErrLogName() string {
	if stringImpl != nil {
		return stringImpl.ErrLogName()
	}
	return "provision_error.log"
}

//Local account notified of error events.
func MailRecipient() string {
	if stringImpl != nil {
		return stringImpl.MailRecipient()
	}
	return "root"
}

//Env var names recognized by pkg/config.

func LogFileEnv() string         { return EnvPrefix() + "LOG_FILE" }
func MinLevelEnv() string        { return EnvPrefix() + "MIN_LOG_LEVEL" }
func ErrLogEnv() string          { return EnvPrefix() + "ERROR_LOG" }
func ErrLogMaxSizeEnv() string   { return EnvPrefix() + "ERROR_LOG_MAX_SIZE" }
func RetainCountEnv() string     { return EnvPrefix() + "RETAIN_COUNT" }
func DiagDirEnv() string         { return EnvPrefix() + "DIAG_DIR" }
func MinFreeMemEnv() string      { return EnvPrefix() + "MIN_FREE_MEM" }
func MinFreeDiskEnv() string     { return EnvPrefix() + "MIN_FREE_DISK" }
func CompressRotatedEnv() string { return EnvPrefix() + "COMPRESS_ROTATED" }
