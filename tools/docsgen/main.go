// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen renders markdown and man pages for each csvcmp command. Flags come
// from the live command tree; descriptions, examples and notes come from
// <docs>/examples.yaml.
package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/csvcmp/csvcmp/internal/command"
)

//go:embed templates/*.tmpl
var templates embed.FS

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

// docFlag is the subset of the cli flag API the pages need.
type docFlag interface {
	TakesValue() bool
	GetUsage() string
	GetDefaultText() string
}

func main() {
	docs := "docs"
	if len(os.Args) > 1 {
		docs = os.Args[1]
	}

	app, err := command.InitApp(context.Background(), []string{"csvcmp"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	extra, err := loadExtra(filepath.Join(docs, "examples.yaml"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := render(app, extra, docs, getVersion(), time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadExtra reads the hand-written parts of each page keyed by command. A
// missing file yields no extras.
func loadExtra(path string) (map[string]Subcommand, error) {
	out := map[string]Subcommand{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for _, sub := range config.Subcommands {
		out[sub.ID] = sub
	}
	return out, nil
}

// subcommand merges a command's flags and usage with its hand-written extras.
func subcommand(cmd *cli.Command, extra Subcommand) Subcommand {
	sub := extra
	sub.ID = cmd.Name
	if sub.Short == "" {
		sub.Short = cmd.Usage
	}
	if sub.Usage == "" {
		sub.Usage = cmd.UsageText
	}
	if sub.Usage == "" {
		sub.Usage = "csvcmp " + cmd.Name + " [options]"
	}

	sub.Flags = append([]Flag{}, extra.Flags...)
	for _, f := range cmd.Flags {
		if v, ok := f.(cli.VisibleFlag); ok && !v.IsVisible() {
			continue
		}
		sub.Flags = append(sub.Flags, flagDoc(f))
	}
	sort.Slice(sub.Flags, func(i, j int) bool {
		return sub.Flags[i].ID < sub.Flags[j].ID
	})
	return sub
}

func flagDoc(f cli.Flag) Flag {
	names := f.Names()
	var syntax []string
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}

	out := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
	if d, ok := f.(docFlag); ok {
		if d.TakesValue() {
			out.Syntax += " value"
		}
		out.Description = d.GetUsage()
		out.Default = d.GetDefaultText()
	}
	return out
}

func render(app *cli.Command, extra map[string]Subcommand, docs, version string, now time.Time) error {
	types := []Outputs{
		{Template: "templates/command.md.tmpl", Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: "templates/command.man.tmpl", Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "csvcmp-", Suffix: ".1"},
	}

	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}

		sub := subcommand(cmd, extra[cmd.Name])
		metadata := TemplateData{
			Subcommand: sub,
			Date:       now.Format("January 2, 2006"),
			Version:    version,
			IDUpper:    strings.ToUpper(sub.ID),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0o755); err != nil {
				return err
			}

			tmpl, err := template.ParseFS(templates, t.Template)
			if err != nil {
				return err
			}

			path := filepath.Join(t.Folder, t.Prefix+sub.ID+t.Suffix)
			fmt.Println("Generating", path)
			file, err := os.Create(path)
			if err != nil {
				return err
			}
			err = tmpl.Execute(file, metadata)
			if cerr := file.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", path, err)
			}
		}
	}
	return nil
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
