// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/csvcmp/csvcmp/internal/command"
)

func TestRender(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "csvcmp.yaml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o600))
	t.Setenv("CSVCMP_CFG_FILE", cfg)

	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "examples.yaml"), []byte(`
subcommands:
  - id: compare
    description: Compares files.
    examples:
      - command: csvcmp compare a.csv b.csv
        description: The basics.
`), 0o600))

	app, err := command.InitApp(context.Background(), []string{"csvcmp"})
	require.NoError(t, err)

	extra, err := loadExtra(filepath.Join(docs, "examples.yaml"))
	require.NoError(t, err)

	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	require.NoError(t, render(app, extra, docs, "1.2.3", now))

	md, err := os.ReadFile(filepath.Join(docs, "commands", "compare.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# csvcmp compare")
	assert.Contains(t, string(md), "`--key, -k value`")
	assert.Contains(t, string(md), "csvcmp compare a.csv b.csv")
	assert.Contains(t, string(md), "October 16, 2026")
	assert.NotContains(t, string(md), "--secret")

	man, err := os.ReadFile(filepath.Join(docs, "man", "share", "man1", "csvcmp-browse.1"))
	require.NoError(t, err)
	assert.Contains(t, string(man), ".TH CSVCMP-BROWSE 1")
	assert.Contains(t, string(man), "csvcmp 1.2.3")
}

func TestLoadExtra_Missing(t *testing.T) {
	extra, err := loadExtra(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, extra)
}

func TestFlagDoc(t *testing.T) {
	f := flagDoc(&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "where to write"})
	assert.Equal(t, "out", f.ID)
	assert.Equal(t, "--out, -o value", f.Syntax)
	assert.Equal(t, "where to write", f.Description)
}
