// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Plinth is the CLI for the plinth array library. It provides
// subcommands for probing the host environment an array workload
// would run in (probe), driving a copy-on-write array under
// concurrent load while checking its isolation and allocation
// guarantees (bench), and rendering stored bench reports (report).
package main
