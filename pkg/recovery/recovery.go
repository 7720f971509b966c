// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package recovery classifies a failing provisioning command and runs one
// bounded corrective probe appropriate to its category. Probes are
// best-effort; their own failures are swallowed so a broken probe can never
// start a second error cascade. Commands matching no known category get no
// probe at all - recovery only handles well-understood failure shapes, it
// does not guess.
package recovery

import (
	"os/exec"
	"strings"

	"provdiag/pkg/log"

	"github.com/google/shlex"
)

//Attempt runs the corrective probe for the given category against the
//failing command. Never returns an error; results only surface in the log.
//Pass Unknown (or the result of Classify) when the caller has no better
//information.
func Attempt(cat Category, command string) {
	if cat == Unknown {
		cat = Classify(command)
	}
	args, err := shlex.Split(command)
	if err != nil || len(args) == 0 {
		log.Debugf("recovery: unparseable command %q, no action", command)
		return
	}
	switch cat {
	case Package:
		removePartialPackage(args)
	case Mount:
		checkFilesystem(args)
	case FileOp:
		listTarget(args)
	default:
		log.Debugf("recovery: no action known for %q", command)
	}
}

//first argument that is not a flag and not the tool itself
func firstOperand(args []string) string {
	for _, a := range args[1:] {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

//last argument that is not a flag
func lastOperand(args []string) string {
	for i := len(args) - 1; i > 0; i-- {
		if !strings.HasPrefix(args[i], "-") {
			return args[i]
		}
	}
	return ""
}

//Remove the partially-installed package so the operator retries from a
//clean state.
func removePartialPackage(args []string) {
	pkg := lastOperand(args)
	if pkg == "" {
		log.Debugf("recovery: no package name in %v, no action", args)
		return
	}
	log.Infof("recovery: removing partially installed package %s", pkg)
	out, ok := log.Cmd(exec.Command("pkg_delete", "-f", pkg))
	if !ok {
		log.Warnf("recovery: pkg_delete %s failed: %s", pkg, strings.TrimSpace(out))
		return
	}
	log.Infof("recovery: package %s removed", pkg)
}

//Consistency-check the device involved in the failed mount. Read-only; a
//real repair is left to the operator.
func checkFilesystem(args []string) {
	dev := firstOperand(args)
	if dev == "" {
		log.Debugf("recovery: no device in %v, no action", args)
		return
	}
	log.Infof("recovery: checking filesystem on %s", dev)
	out, ok := log.Cmd(exec.Command("fsck", "-n", dev))
	if !ok {
		log.Warnf("recovery: fsck -n %s failed: %s", dev, strings.TrimSpace(out))
		return
	}
	log.Infof("recovery: fsck of %s clean", dev)
}

//List the target's current permissions and ownership to aid diagnosis of
//the failed file operation.
func listTarget(args []string) {
	target := lastOperand(args)
	if target == "" {
		log.Debugf("recovery: no target in %v, no action", args)
		return
	}
	out, ok := log.Cmd(exec.Command("ls", "-la", target))
	if !ok {
		log.Warnf("recovery: cannot list %s: %s", target, strings.TrimSpace(out))
		return
	}
	log.Infof("recovery: state of %s:\n%s", target, strings.TrimSpace(out))
}
