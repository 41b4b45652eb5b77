// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli/v3"

	"github.com/csvcmp/csvcmp/internal/differ"
	"github.com/csvcmp/csvcmp/internal/export"
	"github.com/csvcmp/csvcmp/internal/meta"
)

// DifferencesError is returned by compare --fail when the files differ. main
// maps it to exit status 3.
type DifferencesError struct {
	Count int
}

func (e *DifferencesError) Error() string {
	return english.Plural(e.Count, "difference", "") + " found"
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// CompareOptions builds differ options from --key, --yes and --no.
func CompareOptions(cmd *cli.Command) []differ.Option {
	var opts []differ.Option
	if key := cmd.String("key"); strings.TrimSpace(key) != "" {
		opts = append(opts, differ.WithKey(strings.Split(key, ",")...))
	}
	return append(opts, differ.WithLabels(cmd.String("yes"), cmd.String("no")))
}

// ExportOptions builds exporter options from the export flags.
func ExportOptions(cmd *cli.Command) export.Options {
	return export.Options{
		Dir:         cmd.String("dir"),
		Bucket:      cmd.String("bucket"),
		Prefix:      cmd.String("prefix"),
		Region:      cmd.String("region"),
		Profile:     cmd.String("profile"),
		Endpoint:    cmd.String("endpoint"),
		KeyID:       cmd.String("key-id"),
		Secret:      cmd.String("secret"),
		LinkExpiry:  linkExpiry(cmd),
		StageMaxAge: cmd.Int("stage-max-age"),
	}
}

// BoolFlagNames returns the names and aliases of the boolean flags of the
// named subcommand. Unknown commands have none.
func BoolFlagNames(name string) map[string]bool {
	var cmd *cli.Command
	switch name {
	case "compare":
		cmd = compareCommandBuilder(meta.Meta{})
	case "browse":
		cmd = browseCommandBuilder(meta.Meta{})
	default:
		return nil
	}

	names := map[string]bool{}
	for _, f := range cmd.Flags {
		if _, ok := f.(*cli.BoolFlag); ok {
			for _, n := range f.Names() {
				names[n] = true
			}
		}
	}
	return names
}
