// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/csvcmp/csvcmp/internal/browser"
	"github.com/csvcmp/csvcmp/internal/config"
	"github.com/csvcmp/csvcmp/internal/export"
	"github.com/csvcmp/csvcmp/internal/log"
	"github.com/csvcmp/csvcmp/internal/meta"
)

// browseCommandAction is the action handler for the "browse" subcommand. It
// launches the interactive browser, skipping the file picker for files given
// on the command line.
func browseCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "browse"

	opts := browser.Options{
		StartDir: cmd.String("start-dir"),
		Compare:  CompareOptions(cmd),
		Exporter: export.New(ExportOptions(cmd)),
		Color:    cmd.Bool("color"),
	}
	args := cmd.Args().Slice()
	if len(args) > 0 {
		opts.File1 = args[0]
	}
	if len(args) > 1 {
		opts.File2 = args[1]
	}

	state, err := browser.Run(ctx, opts)
	if err != nil {
		return err
	}
	log.Debugf("browse done: %s", state.Status)

	return nil
}

// browseCommandBuilder constructs the cli.Command for "browse".
func browseCommandBuilder(meta meta.Meta) *cli.Command {
	ns, path := "browse", meta.Config.Source

	flags := append(NewAlignFlags(ns, path), NewExportFlags(ns, path)...)
	flags = append(flags, withSources(ns, path,
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "color row deltas",
			Value:   false,
		},
		&cli.StringFlag{
			Name:  "start-dir",
			Usage: "directory the file picker opens in",
			Value: ".",
		},
	)...)

	return &cli.Command{
		Name:      "browse",
		Usage:     "interactive file picker and result browser",
		UsageText: "csvcmp browse [FILE1 [FILE2]] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: browseCommandAction,
	}
}
