// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package notify sends a best-effort local mail to the administrator
// summarizing an error event. A host without a mail facility is silently
// tolerated; notification failure never affects the error handling sequence.
package notify

import (
	"fmt"
	"os/exec"
	"strings"

	"provdiag/pkg/common/strs"
	"provdiag/pkg/diag"
	"provdiag/pkg/log"
)

//overridden in tests
var lookPath = exec.LookPath

//mail tools probed for, in order of preference
var mailers = []string{"mail", "mailx"}

//Notify mails a short plain-text summary of the event to the local admin
//account. errorLog is included as a pointer to the full forensic record.
//Best-effort; the only trace of failure is in the log.
func Notify(ev *diag.ErrorEvent, errorLog string) {
	var mailer string
	for _, m := range mailers {
		if path, err := lookPath(m); err == nil {
			mailer = path
			break
		}
	}
	if mailer == "" {
		log.Debugf("no mail facility present, skipping notification")
		return
	}
	subject := fmt.Sprintf("provisioning failure %s", ev.ID)
	cmd := exec.Command(mailer, "-s", subject, strs.MailRecipient())
	cmd.Stdin = strings.NewReader(body(ev, errorLog))
	if _, ok := log.Cmd(cmd); !ok {
		log.Warnf("notification via %s failed", mailer)
		return
	}
	log.Infof("notification sent to %s", strs.MailRecipient())
}

func body(ev *diag.ErrorEvent, errorLog string) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "Provisioning failed on this host.\n\n")
	fmt.Fprintf(b, "Error ID:   %s\n", ev.ID)
	fmt.Fprintf(b, "Command:    %s\n", ev.Command)
	fmt.Fprintf(b, "Exit code:  %d\n", ev.ExitCode)
	fmt.Fprintf(b, "Location:   line %d in %s\n", ev.Line, ev.Function)
	fmt.Fprintf(b, "Time:       %s\n\n", ev.Time.Format(log.TimestampLayout))
	fmt.Fprintf(b, "Full details including stack trace and state snapshot:\n  %s\n", errorLog)
	if v, ok := log.GetAttr("Filename"); ok {
		fmt.Fprintf(b, "Activity log:\n  %s\n", v)
	}
	return b.String()
}
