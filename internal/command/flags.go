// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// NewAlignFlags constructs the flags that control how rows are matched and
// labeled. ns is the command namespace and path the config file, if any.
func NewAlignFlags(ns, path string) []cli.Flag {
	return withSources(ns, path,
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "comma-separated join key columns. Rows align by position when empty",
		},
		&cli.StringFlag{
			Name:  "yes",
			Usage: "Difference column text for differing rows",
			Value: "Yes",
		},
		&cli.StringFlag{
			Name:  "no",
			Usage: "Difference column text for matching rows",
			Value: "No",
		},
	)
}

// NewOutputFlags constructs the flags read by output.OptionsFromCommand.
func NewOutputFlags(ns, path string) []cli.Flag {
	return withSources(ns, path,
		&cli.StringFlag{
			Name:  "columns",
			Usage: "comma-separated column specs (key[:title[:transform]], !key hides)",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.BoolFlag{
			Name:    "diff-only",
			Aliases: []string{"d"},
			Usage:   "only show differing rows",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to rows",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text|csv|json|yaml)",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between text columns",
			Value: 2,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort rows by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	)
}

// NewExportFlags constructs the save and share destination flags.
func NewExportFlags(ns, path string) []cli.Flag {
	return withSources(ns, path,
		&cli.StringFlag{
			Name:  "bucket",
			Usage: "S3 bucket to share exports to",
		},
		&cli.StringFlag{
			Name:  "dir",
			Usage: "directory to save exports in",
			Value: ".",
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "S3-compatible endpoint, e.g. a MinIO host",
		},
		&cli.DurationFlag{
			Name:  "link-expiry",
			Usage: "return a presigned https link valid this long instead of the s3:// URI",
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "object key prefix for shared exports",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile",
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region",
		},
		&cli.IntFlag{
			Name:  "stage-max-age",
			Usage: "hours to keep staged share copies",
			Value: 24,
		},
		&cli.StringFlag{
			Name:   "key-id",
			Usage:  "static S3 access key id",
			Hidden: true,
		},
		&cli.StringFlag{
			Name:   "secret",
			Usage:  "static S3 secret access key",
			Hidden: true,
		},
	)
}

// withSources gives each flag a CSVCMP_* environment variable and, when a
// config file was loaded, namespaced and global config file sources.
func withSources(ns, path string, flags ...cli.Flag) []cli.Flag {
	for _, flag := range flags {
		NameSpacedValueChainFlagFromConfigFile(ns, path, flag)
	}
	return flags
}

// NameSpacedValueChainFlagFromConfigFile adds the environment variable plus
// namespaced and global config file sources to the given flag's Sources
// chain. The config sources are skipped when path is empty.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag cli.Flag) cli.Flag {
	var chain *cli.ValueSourceChain
	switch f := flag.(type) {
	case *cli.StringFlag:
		chain = &f.Sources
	case *cli.BoolFlag:
		chain = &f.Sources
	case *cli.IntFlag:
		chain = &f.Sources
	case *cli.DurationFlag:
		chain = &f.Sources
	default:
		return flag
	}

	name := flag.Names()[0]
	chain.Chain = append(chain.Chain, cli.EnvVar(envName(name)))

	if path != "" {
		if ns != "" {
			chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
		}
		chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
	}

	return flag
}

// envName maps a flag name to its environment variable, e.g. diff-only to
// CSVCMP_DIFF_ONLY.
func envName(flag string) string {
	return "CSVCMP_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// linkExpiry reads --link-expiry, ignoring negative values.
func linkExpiry(cmd *cli.Command) time.Duration {
	if d := cmd.Duration("link-expiry"); d > 0 {
		return d
	}
	return 0
}
