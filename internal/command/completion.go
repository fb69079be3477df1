// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/pumlcache/internal/meta"
)

const bashCompletionScript = `# bash completion for pumlcache
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_pumlcache()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "render ls stats clear prune recent completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
        render)
            local opts="--format -F --out -O --java --jar --graphviz --timeout --tldr"
            ;;
        ls|stats)
            local opts="$common"
            ;;
        clear)
            local opts="--tldr"
            ;;
        prune)
            local opts="--hours --tldr"
            ;;
        recent)
            local opts="$common --clear"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --format|-F)
            COMPREPLY=( $(compgen -W "svg png" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* || "$cmd" != "render" ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -f -X '!*.@(puml|plantuml|pu|iuml)' -- "$cur") $(compgen -d -- "$cur") )
    return 0
}

complete -F _pumlcache pumlcache
`

const zshCompletionScript = `#compdef pumlcache

_pumlcache() {
  local -a cmds
  cmds=(
    'render:render a PlantUML document through the cache'
    'ls:list cached renders'
    'stats:summarize cache usage'
    'clear:remove all cached renders'
    'prune:remove renders not used recently'
    'recent:list recently rendered documents'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'pumlcache commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    render)
      _arguments -C \
        '(-F --format)'{-F,--format}'[image format]:format:(svg png)' \
        '(-O --out)'{-O,--out}'[output file]:file:_files' \
        '--java[java binary]:file:_files' \
        '--jar[PlantUML jar]:file:_files -g "*.jar"' \
        '--graphviz[dot binary]:file:_files' \
        '--timeout[render timeout]:duration' \
        '--tldr[show tldr page]' \
        '1::document:_files -g "*.(puml|plantuml|pu|iuml)"'
      ;;
    ls|stats)
      _arguments -C $common
      ;;
    clear)
      _arguments -C '--tldr[show tldr page]'
      ;;
    prune)
      _arguments -C '--hours[age in hours]:hours' '--tldr[show tldr page]'
      ;;
    recent)
      _arguments -C $common '--clear[forget recent documents]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _pumlcache pumlcache
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := Writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: pumlcache completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "pumlcache completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
