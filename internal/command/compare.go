// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/csvcmp/csvcmp/internal/config"
	"github.com/csvcmp/csvcmp/internal/differ"
	"github.com/csvcmp/csvcmp/internal/export"
	"github.com/csvcmp/csvcmp/internal/log"
	"github.com/csvcmp/csvcmp/internal/meta"
	"github.com/csvcmp/csvcmp/internal/output"
	"github.com/csvcmp/csvcmp/internal/table"
)

// compareCommandAction is the action handler for the "compare" subcommand. It
// compares the two input files, renders the result per the output flags and
// optionally saves or shares an export.
func compareCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "compare"

	args := cmd.Args().Slice()
	switch {
	case len(args) < 2:
		return &table.FileSelectionError{Err: fmt.Errorf("%w: compare needs two files", table.ErrNoFile)}
	case len(args) > 2:
		return fmt.Errorf("too many arguments: %v", args[2:])
	}

	res, err := differ.CompareFiles(args[0], args[1], CompareOptions(cmd)...)
	if err != nil {
		return err
	}
	log.Debugf("compare %s %s: %s", args[0], args[1], res.Summary())

	opts := output.OptionsFromCommand(cmd)
	if opts.Titles {
		opts.Header = fmt.Sprintf("%s vs %s", args[0], args[1])
	}
	if err := output.SliceDiceSpit(cmd.Root().Writer, res, opts); err != nil {
		return err
	}

	if spec := cmd.String("export"); spec != "" {
		mode, err := export.ParseMode(spec)
		if err != nil {
			return err
		}
		dest, err := export.ParseDestination(cmd.String("dest"))
		if err != nil {
			return err
		}

		rows := differ.Records(res.Rows(mode == export.DiffOnly))
		where, err := export.New(ExportOptions(cmd)).ExportOrShare(ctx, rows, mode, dest)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.Root().ErrWriter, "%s: %s\n", mode.FileName(), where)
	}

	if cmd.Bool("fail") && res.DiffCount() > 0 {
		return &DifferencesError{Count: res.DiffCount()}
	}
	return nil
}

// compareCommandBuilder constructs the cli.Command for "compare" and wires up
// metadata, flags, and the action handler.
func compareCommandBuilder(meta meta.Meta) *cli.Command {
	ns, path := "compare", meta.Config.Source

	flags := append(NewAlignFlags(ns, path), NewOutputFlags(ns, path)...)
	flags = append(flags, NewExportFlags(ns, path)...)
	flags = append(flags, withSources(ns, path,
		&cli.StringFlag{
			Name:    "export",
			Aliases: []string{"e"},
			Usage:   "also export rows (all|diff)",
			Validator: func(value string) error {
				return FlagValidators(value, ExportValidator)
			},
		},
		&cli.StringFlag{
			Name:  "dest",
			Usage: "export destination (save|share)",
			Value: "save",
			Validator: func(value string) error {
				return FlagValidators(value, DestValidator)
			},
		},
		&cli.BoolFlag{
			Name:  "fail",
			Usage: "exit with status 3 when differences are found",
			Value: false,
		},
	)...)

	return &cli.Command{
		Name:      "compare",
		Usage:     "compare two files row by row",
		UsageText: "csvcmp compare FILE1 FILE2 [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  flags,
		Action: compareCommandAction,
	}
}
