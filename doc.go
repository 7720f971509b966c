// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Provdiag is the diagnostic and recovery core used by unattended
// provisioning runs. Provisioning itself - package installs, config file
// deployment, service restarts - is thin, OS-specific command execution and
// lives outside this module; provdiag only observes it.
//
// Subpackages implement a leveled multi-sink logger, bounded rotation of the
// error log, unique error ids, stack trace and system state capture,
// resource exhaustion checks, best-effort recovery probes, and the
// orchestrator that ties these together when a provisioning step fails.
//
// The process model is deliberately simple: one process, one provisioning
// run, synchronous execution. The first non-ignored step failure is reported
// to pkg/handler exactly once, a forensic trail is written to disk, and the
// process exits with the failing step's exit code.
package provdiag
