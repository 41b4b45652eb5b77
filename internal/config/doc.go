// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for csvcmp's user
// configuration. The configuration is expected to be a YAML document located
// in the user's configuration directory, typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/csvcmp.yaml or $HOME/.config/csvcmp.yaml
//   - Windows: %APPDATA%/csvcmp.yaml
//
// CSVCMP_CFG_FILE overrides the location. Keys are addressed with dotted
// paths and may be namespaced by subcommand, e.g. "compare.labels.yes" is
// preferred over "labels.yes" while the compare command runs.
package config
