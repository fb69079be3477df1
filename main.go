// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/pumlcache/internal/cacheutil"
	"github.com/staranto/pumlcache/internal/command"
	"github.com/staranto/pumlcache/internal/config"
	mylog "github.com/staranto/pumlcache/internal/log"
	"github.com/staranto/pumlcache/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && !ok {
		// Non-fatal: the cache falls back to memory.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands argument sets from the config file. An argument of
// the form @name is replaced by the list at <command>.<name>; without one the
// <command>.defaults list, if any, is inserted right after the command.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	if strings.HasPrefix(args[1], "-") {
		return args
	}

	rest := append([]string{}, args[2:]...)

	// See if there is a @set specified. If so, that becomes the insertion point
	// and the @set entry is removed from args.
	idx := 0
	set := "defaults"
	for i, a := range rest {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx = i
			rest = append(rest[:i], rest[i+1:]...)
			break
		}
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	var expanded []string
	for _, arg := range setArgs {
		expanded = append(expanded, strings.Fields(arg)...)
	}

	result := append(preamble, rest[:idx]...)
	result = append(result, expanded...)
	result = append(result, rest[idx:]...)

	log.Debugf("set=%s, args=%v", set, result)
	return result
}
