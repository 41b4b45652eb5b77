// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/csvcmp/csvcmp/internal/cacheutil"
	"github.com/csvcmp/csvcmp/internal/command"
	"github.com/csvcmp/csvcmp/internal/config"
	"github.com/csvcmp/csvcmp/internal/log"
	"github.com/csvcmp/csvcmp/internal/version"
)

var ctx = context.Background()

// Exit codes.
const (
	exitOK          = 0
	exitInit        = 1
	exitRun         = 2
	exitDifferences = 3
)

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)

		args = deduplicateFlags(args, command.BoolFlagNames(args[1]))
		log.Debugf("args after dedup: args=%v", args)
		return args
	}
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return exitInit
	}

	if err := app.Run(ctx, args); err != nil {
		var de *command.DifferencesError
		if errors.As(err, &de) {
			log.Debugf("differences found: count=%d", de.Count)
			return exitDifferences
		}
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return exitRun
	}

	return exitOK
}

func realMain() int {
	return run(os.Args)
}

func run(args []string) int {
	log.InitLogger()
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return exitOK
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands a named argument set from the config file. An
// explicit @set argument is replaced by the <command>.<set> entries; without
// one, the <command>.defaults entries are inserted right after the command so
// that anything on the command line overrides them.
func processSetOnly(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	// Look for an explicit @set argument starting from index 2.
	idx := 2
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			removeIdx := idx + i
			set := a[1:]
			// Remove the @set argument.
			args = append(args[:removeIdx:removeIdx], args[removeIdx+1:]...)
			return injectConfigSet(args, args[1]+"."+set, removeIdx)
		}
	}

	return injectConfigSet(args, args[1]+".defaults", idx)
}

// injectConfigSet inserts the whitespace-split entries of the config string
// list at key into args at insertIdx.
func injectConfigSet(args []string, key string, insertIdx int) []string {
	entries, err := config.GetStringSlice(key)
	if err != nil || len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags removes earlier occurrences of a repeated flag so the last
// one wins. A non-boolean flag without =value owns the following argument when
// that argument does not look like a flag; boolean flags, named in bools,
// never do. Positional arguments are kept in order.
func deduplicateFlags(args []string, bools map[string]bool) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		name  string
		items []string
	}

	var groups []group
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		a := rest[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			groups = append(groups, group{items: []string{a}})
			continue
		}

		name := strings.TrimLeft(a, "-")
		if eq := strings.Index(name, "="); eq >= 0 {
			groups = append(groups, group{name: name[:eq], items: []string{a}})
			continue
		}

		g := group{name: name, items: []string{a}}
		if !bools[name] && i+1 < len(rest) && !strings.HasPrefix(rest[i+1], "-") {
			g.items = append(g.items, rest[i+1])
			i++
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.name != "" && last[g.name] != i {
			continue
		}
		out = append(out, g.items...)
	}
	return out
}
