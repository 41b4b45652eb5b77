// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/csvcmp/csvcmp/internal/browser"
	"github.com/csvcmp/csvcmp/internal/config"
	"github.com/csvcmp/csvcmp/internal/export"
	"github.com/csvcmp/csvcmp/internal/table"
)

const (
	leftCSV     = "id,name,amount\n1,alpha,10\n2,Bravo,9\n3,charlie,100\n4,delta,\n"
	rightCSV    = "id,name,amount\n1,alpha,10\n2,Bravo,90\n3,charlie,100\n4,Delta,\n"
	shuffledCSV = "id,name,amount\n4,Delta,\n3,charlie,100\n2,Bravo,90\n1,alpha,10\n"
)

// isolate points config and cache at temp locations and clears flag env vars
// that would leak in from the developer's shell.
func isolate(t *testing.T, cfg string) {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "csvcmp.yaml")
	require.NoError(t, os.WriteFile(p, []byte(cfg), 0o600))
	t.Setenv("CSVCMP_CFG_FILE", p)
	t.Setenv("CSVCMP_CACHE_DIR", filepath.Join(dir, "cache"))
	for _, name := range []string{"OUTPUT", "DIFF_ONLY", "KEY", "YES", "NO", "DIR", "BUCKET", "COLUMNS", "FILTER", "SORT", "EXPORT", "DEST", "FAIL"} {
		unsetenv(t, "CSVCMP_"+name)
	}
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
}

// unsetenv removes key for the duration of the test. An empty value would
// still count as set for flag sources.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	if old, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { _ = os.Setenv(key, old) })
	}
	require.NoError(t, os.Unsetenv(key))
}

func inputs(t *testing.T, right string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	a := filepath.Join(dir, "left.csv")
	b := filepath.Join(dir, "right.csv")
	require.NoError(t, os.WriteFile(a, []byte(leftCSV), 0o600))
	require.NoError(t, os.WriteFile(b, []byte(right), 0o600))
	return a, b
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	full := append([]string{"csvcmp"}, args...)

	app, err := InitApp(context.Background(), full)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err = app.Run(context.Background(), full)
	return stdout.String(), stderr.String(), err
}

func TestInitApp(t *testing.T) {
	isolate(t, "")

	app, err := InitApp(context.Background(), []string{"csvcmp", "compare"})
	require.NoError(t, err)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)

		flagNames := make([]string, len(cmd.Flags))
		for i, f := range cmd.Flags {
			flagNames[i] = f.Names()[0]
		}
		assert.True(t, sort.StringsAreSorted(flagNames), cmd.Name)
	}
	assert.Equal(t, []string{"compare", "browse", "completion"}, names)
	assert.Equal(t, "compare", config.Config.Namespace)
}

func TestInitApp_BrokenConfig(t *testing.T) {
	isolate(t, "compare: [\n")

	_, err := InitApp(context.Background(), []string{"csvcmp", "compare"})
	assert.ErrorContains(t, err, "failed to load config")
}

func TestInitApp_NoConfig(t *testing.T) {
	isolate(t, "")
	t.Setenv("CSVCMP_CFG_FILE", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	app, err := InitApp(context.Background(), []string{"csvcmp"})
	require.NoError(t, err)
	assert.Equal(t, "csvcmp", app.Name)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		cfg       string
		env       map[string]string
		right     string
		args      []string
		checkFunc func(t *testing.T, out string)
	}{
		{
			name:  "json diff only",
			right: rightCSV,
			args:  []string{"--output", "json", "--diff-only"},
			checkFunc: func(t *testing.T, out string) {
				assert.Equal(t, int64(2), gjson.Get(out, "#").Int())
				assert.Equal(t, "90", gjson.Get(out, "0.amount").String())
			},
		},
		{
			name:  "text with summary",
			right: rightCSV,
			args:  []string{"--titles"},
			checkFunc: func(t *testing.T, out string) {
				assert.Contains(t, out, "left.csv vs ")
				assert.Contains(t, out, "Difference")
				assert.True(t, strings.HasSuffix(out, "2 differences found.\n"), out)
			},
		},
		{
			name:  "join key",
			right: shuffledCSV,
			args:  []string{"--key", "id", "--output", "csv", "--diff-only"},
			checkFunc: func(t *testing.T, out string) {
				assert.Equal(t, "id,name,amount,Difference\n2,Bravo,90,Yes\n4,Delta,,Yes\n", out)
			},
		},
		{
			name:  "positional on shuffled rows",
			right: shuffledCSV,
			args:  []string{"--output", "json", "--diff-only"},
			checkFunc: func(t *testing.T, out string) {
				assert.Equal(t, int64(4), gjson.Get(out, "#").Int())
			},
		},
		{
			name:  "labels",
			right: rightCSV,
			args:  []string{"--yes", "changed", "--no", "same", "--output", "csv", "--columns", "!name,!amount"},
			checkFunc: func(t *testing.T, out string) {
				assert.Equal(t, "id,Difference\n1,same\n2,changed\n3,same\n4,changed\n", out)
			},
		},
		{
			name:  "config file namespaced values",
			cfg:   "compare:\n  output: csv\n  diff-only: true\n",
			right: rightCSV,
			checkFunc: func(t *testing.T, out string) {
				assert.Equal(t, "id,name,amount,Difference\n2,Bravo,90,Yes\n4,Delta,,Yes\n", out)
			},
		},
		{
			name:  "config file global value",
			cfg:   "output: json\n",
			right: rightCSV,
			checkFunc: func(t *testing.T, out string) {
				assert.True(t, gjson.Valid(out), out)
			},
		},
		{
			name:  "environment",
			env:   map[string]string{"CSVCMP_OUTPUT": "yaml", "CSVCMP_FILTER": "id=3"},
			right: rightCSV,
			checkFunc: func(t *testing.T, out string) {
				assert.True(t, strings.HasPrefix(out, "- id: \"3\"\n"), out)
			},
		},
		{
			name:  "flag beats environment",
			env:   map[string]string{"CSVCMP_OUTPUT": "yaml"},
			right: rightCSV,
			args:  []string{"-o", "json"},
			checkFunc: func(t *testing.T, out string) {
				assert.True(t, gjson.Valid(out), out)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, tt.cfg)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			a, b := inputs(t, tt.right)

			out, _, err := runApp(t, append([]string{"compare", a, b}, tt.args...)...)
			require.NoError(t, err)
			tt.checkFunc(t, out)
		})
	}
}

func TestCompare_Errors(t *testing.T) {
	isolate(t, "")
	a, b := inputs(t, rightCSV)

	t.Run("no files", func(t *testing.T) {
		_, _, err := runApp(t, "compare")
		var fse *table.FileSelectionError
		require.True(t, errors.As(err, &fse))
		assert.ErrorIs(t, err, table.ErrNoFile)
	})

	t.Run("one file", func(t *testing.T) {
		_, _, err := runApp(t, "compare", a)
		assert.ErrorIs(t, err, table.ErrNoFile)
	})

	t.Run("too many files", func(t *testing.T) {
		_, _, err := runApp(t, "compare", a, b, a)
		assert.ErrorContains(t, err, "too many arguments")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runApp(t, "compare", a, filepath.Join(t.TempDir(), "nope.csv"))
		var fse *table.FileSelectionError
		assert.True(t, errors.As(err, &fse))
	})

	t.Run("unknown key column", func(t *testing.T) {
		_, _, err := runApp(t, "compare", a, b, "--key", "sku")
		assert.ErrorContains(t, err, "sku")
	})

	t.Run("bad output", func(t *testing.T) {
		_, _, err := runApp(t, "compare", a, b, "--output", "xml")
		assert.ErrorContains(t, err, "must be one of")
	})

	t.Run("bad export", func(t *testing.T) {
		_, _, err := runApp(t, "compare", a, b, "--export", "some")
		assert.ErrorContains(t, err, "unknown export mode")
	})

	t.Run("share without bucket", func(t *testing.T) {
		_, _, err := runApp(t, "compare", a, b, "--output", "csv", "--export", "all", "--dest", "share")
		assert.ErrorIs(t, err, export.ErrNoBucket)
	})
}

func TestCompare_Fail(t *testing.T) {
	isolate(t, "")

	a, b := inputs(t, rightCSV)
	_, _, err := runApp(t, "compare", a, b, "--output", "csv", "--fail")
	var de *DifferencesError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Count)
	assert.Equal(t, "2 differences found", err.Error())

	a, b = inputs(t, leftCSV)
	_, _, err = runApp(t, "compare", a, b, "--output", "csv", "--fail")
	assert.NoError(t, err)
}

func TestCompare_Export(t *testing.T) {
	isolate(t, "")
	a, b := inputs(t, rightCSV)
	dir := t.TempDir()

	_, stderr, err := runApp(t, "compare", a, b, "-o", "csv", "--export", "diff", "--dir", dir)
	require.NoError(t, err)

	want := filepath.Join(dir, "differences.csv")
	assert.Equal(t, "differences.csv: "+want+"\n", stderr)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	tbl, err := table.Parse(string(data))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	_, _, err = runApp(t, "compare", a, b, "-o", "csv", "--export", "all", "--dir", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "all_info.csv"))
}

func TestBrowse_NotTerminal(t *testing.T) {
	isolate(t, "")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	_, _, err = runApp(t, "browse", "a.csv", "b.csv")
	assert.ErrorIs(t, err, browser.ErrNotTerminal)
}

func TestCompletion(t *testing.T) {
	isolate(t, "")

	tests := []struct {
		shell string
		want  string
	}{
		{shell: "bash", want: "complete -F _csvcmp csvcmp"},
		{shell: "zsh", want: "#compdef csvcmp"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, _, err := runApp(t, "completion", tt.shell)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	t.Run("unknown shell", func(t *testing.T) {
		t.Setenv("SHELL", "/bin/fish")
		out, stderr, err := runApp(t, "completion")
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Contains(t, stderr, "usage: csvcmp completion")
	})
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator FlagValidatorType
		value     any
		wantErr   bool
	}{
		{name: "output text", validator: OutputValidator, value: "text"},
		{name: "output csv", validator: OutputValidator, value: "csv"},
		{name: "output raw", validator: OutputValidator, value: "raw", wantErr: true},
		{name: "output not a string", validator: OutputValidator, value: 1, wantErr: true},
		{name: "export empty", validator: ExportValidator, value: ""},
		{name: "export diff-only", validator: ExportValidator, value: "diff-only"},
		{name: "export bogus", validator: ExportValidator, value: "bogus", wantErr: true},
		{name: "dest share", validator: DestValidator, value: "SHARE"},
		{name: "dest email", validator: DestValidator, value: "email", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidators(tt.value, tt.validator)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "CSVCMP_DIFF_ONLY", envName("diff-only"))
	assert.Equal(t, "CSVCMP_KEY", envName("key"))
	assert.Equal(t, "CSVCMP_STAGE_MAX_AGE", envName("stage-max-age"))
}

func TestBoolFlagNames(t *testing.T) {
	compare := BoolFlagNames("compare")
	for _, n := range []string{"color", "c", "diff-only", "d", "titles", "t", "fail"} {
		assert.True(t, compare[n], n)
	}
	for _, n := range []string{"output", "o", "key", "k", "dest"} {
		assert.False(t, compare[n], n)
	}

	browse := BoolFlagNames("browse")
	assert.True(t, browse["color"])
	assert.False(t, browse["start-dir"])

	assert.Nil(t, BoolFlagNames("completion"))
	assert.Nil(t, BoolFlagNames("--help"))
}

func TestExportOptions(t *testing.T) {
	isolate(t, "")
	t.Setenv("CSVCMP_BUCKET", "reports")

	var got export.Options
	cmd := &cli.Command{
		Name:  "x",
		Flags: NewExportFlags("x", ""),
		Action: func(_ context.Context, c *cli.Command) error {
			got = ExportOptions(c)
			return nil
		},
	}

	err := cmd.Run(context.Background(), []string{"x", "--prefix", "nightly", "--link-expiry", "15m", "--key-id", "AKID"})
	require.NoError(t, err)

	assert.Equal(t, export.Options{
		Dir:         ".",
		Bucket:      "reports",
		Prefix:      "nightly",
		KeyID:       "AKID",
		LinkExpiry:  15 * time.Minute,
		StageMaxAge: 24,
	}, got)
}

func TestGetMeta(t *testing.T) {
	assert.Empty(t, GetMeta(nil).Args)
	assert.Empty(t, GetMeta(&cli.Command{Metadata: map[string]any{"meta": "nope"}}).Args)
}
