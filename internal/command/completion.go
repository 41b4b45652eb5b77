// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/csvcmp/csvcmp/internal/meta"
)

const bashCompletionScript = `# bash completion for csvcmp
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_csvcmp()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "compare browse completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local align="--key -k --yes --no"
    local export="--bucket --dir --endpoint --link-expiry --prefix --profile --region --stage-max-age"

    case "$cmd" in
        compare)
            local opts="$align $export --color -c --columns --diff-only -d --filter -f --output -o --padding --sort -s --titles -t --export -e --dest --fail"
            ;;
        browse)
            local opts="$align $export --color -c --start-dir"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text csv json yaml" -- "$cur") )
            return 0
            ;;
        --export|-e)
            COMPREPLY=( $(compgen -W "all diff" -- "$cur") )
            return 0
            ;;
        --dest)
            COMPREPLY=( $(compgen -W "save share" -- "$cur") )
            return 0
            ;;
        --dir|--start-dir)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise, we're on an input file positional.
    COMPREPLY=( $(compgen -f -X '!*.@(csv|txt|xlsx|xlsm)' -o plusdirs -- "$cur") )
    return 0
}

complete -F _csvcmp csvcmp
`

const zshCompletionScript = `#compdef csvcmp

_csvcmp() {
  local -a cmds
  cmds=(
    'compare:compare two files row by row'
    'browse:interactive file picker and result browser'
    'completion:generate shell completion script'
  )

  local -a align export
  align=(
  '(-k --key)'{-k,--key}'[join key columns]:columns'
  '--yes[label for differing rows]:label'
  '--no[label for matching rows]:label'
  )
  export=(
  '--bucket[S3 bucket]:bucket'
  '--dir[save directory]:dir:_directories'
  '--endpoint[S3-compatible endpoint]:url'
  '--link-expiry[presigned link lifetime]:duration'
  '--prefix[object key prefix]:prefix'
  '--profile[AWS profile]:profile'
  '--region[AWS region]:region'
  '--stage-max-age[hours to keep staged copies]:hours'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'csvcmp commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    compare)
      _arguments -C \
        $align \
        $export \
        '(-c --color)'{-c,--color}'[enable colored text]' \
        '--columns[column specs]:columns' \
        '(-d --diff-only)'{-d,--diff-only}'[only differing rows]' \
        '(-f --filter)'{-f,--filter}'[filters to apply]:filters' \
        '(-o --output)'{-o,--output}'[output format]:format:(text csv json yaml)' \
        '--padding[spaces between columns]:n' \
        '(-s --sort)'{-s,--sort}'[sort columns]:columns' \
        '(-t --titles)'{-t,--titles}'[show titles]' \
        '(-e --export)'{-e,--export}'[export rows]:mode:(all diff)' \
        '--dest[export destination]:dest:(save share)' \
        '--fail[exit 3 on differences]' \
        '1:first file:_files -g "*.(csv|txt|xlsx|xlsm)"' \
        '2:second file:_files -g "*.(csv|txt|xlsx|xlsm)"'
      ;;
    browse)
      _arguments -C \
        $align \
        $export \
        '(-c --color)'{-c,--color}'[color row deltas]' \
        '--start-dir[picker directory]:dir:_directories' \
        '::first file:_files -g "*.(csv|txt|xlsx|xlsm)"' \
        '::second file:_files -g "*.(csv|txt|xlsx|xlsm)"'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _csvcmp csvcmp
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(cmd.Root().ErrWriter, "usage: csvcmp completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "csvcmp completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
