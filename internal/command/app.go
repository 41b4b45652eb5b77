// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/csvcmp/csvcmp/internal/config"
	"github.com/csvcmp/csvcmp/internal/log"
	"github.com/csvcmp/csvcmp/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the csvcmp
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// Running without a config file is fine; a broken one is not.
	cfg, err := config.Load()
	if err != nil {
		if !errors.Is(err, config.ErrNoConfigFile) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		log.Debugf("running without config: %v", err)
	}
	config.Config.Namespace = ns

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "csvcmp",
		Usage: "compare two CSV files row by row",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "csvcmp version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		compareCommandBuilder(meta),
		browseCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
