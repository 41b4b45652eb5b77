// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package browser is the interactive terminal UI behind "csvcmp browse".
//
// The user picks two files (unless both were given on the command line), the
// comparison runs and its rows are shown in a scrollable table. From there the
// user can toggle between all rows and differing rows, filter, open a row's
// field delta, save or share either export, re-run the comparison or pick new
// files.
//
// Everything the screens need lives in a single AppState value. Handlers never
// patch it in place; each action produces a new AppState, so a failed action
// leaves the previous result intact and only the status line changes.
package browser
