// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Command provdiag runs a provisioning plan under the diagnostic subsystem.
// Configuration comes from the environment (LOG_FILE, MIN_LOG_LEVEL,
// ERROR_LOG, and friends; see provdiag/pkg/config). Any failing plan step is
// trapped by the error handler, which leaves a forensic trail on disk and
// exits with the failing command's exit code.
package main

import (
	"flag"
	"fmt"
	"os"

	"provdiag/pkg/config"
	"provdiag/pkg/handler"
	"provdiag/pkg/housekeeping"
	"provdiag/pkg/log"
	"provdiag/pkg/log/level"
	"provdiag/pkg/steps"
)

//in any binary with main.buildId string, it is set at compile time to $BUILD_INFO
var buildId string

func main() {
	planPath := flag.String("plan", "", "path to provisioning plan json")
	flag.Parse()
	if *planPath == "" {
		fmt.Fprintln(os.Stderr, "usage: provdiag -plan <plan.json>")
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %s\n", err)
		os.Exit(2)
	}

	log.SetPrefix("provdiag")
	if _, err := log.AddNamedFileLog(cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log %s: %s\n", cfg.LogFile, err)
	}
	log.SetMinLevel(cfg.MinLevel)
	//console output with color coding only when explicitly lowered to DEBUG
	if cfg.MinLevel == level.Debug {
		log.AddConsoleLog(true)
	}
	log.AdaptStdlog(nil, level.Info, true)
	housekeeping.AddShutdownDefaults()

	log.Infof("buildId: %s", buildId)

	plan, err := steps.LoadPlan(*planPath)
	if err != nil {
		log.Fatalf("loading plan %s: %s", *planPath, err)
	}

	h := handler.New(cfg)
	if f := plan.Run(); f != nil {
		//does not return
		h.Report(f)
	}
	housekeeping.Shutdowns.Perform(true)
}
