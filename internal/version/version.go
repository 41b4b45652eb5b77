// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other csvcmp packages to avoid import cycles.

package version

import "runtime/debug"

// stamped is set at release time with
// -ldflags "-X github.com/csvcmp/csvcmp/internal/version.stamped=v1.2.3".
var stamped string

// Version is the release stamp, else the module version from build info,
// else "dev".
var Version = resolve(stamped, debug.ReadBuildInfo)

func resolve(stamp string, info func() (*debug.BuildInfo, bool)) string {
	if stamp != "" {
		return stamp
	}
	if bi, ok := info(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}
