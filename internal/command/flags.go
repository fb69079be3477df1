// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"os/exec"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/pumlcache/internal/render"
)

// newTldrFlag returns the --tldr flag, hidden when tldr is not installed.
func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the presentation flags shared by the listing
// commands. Values fall back to <ns>.<flag> and then <flag> in the config file
// at source.
func NewGlobalFlags(ns string, source string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(source)),
				yaml.YAML("color", altsrc.StringSourcer(source)),
			),
			Value: term.IsTerminal(int(os.Stdout.Fd())),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(source)),
				yaml.YAML("output", altsrc.StringSourcer(source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(source)),
				yaml.YAML("titles", altsrc.StringSourcer(source)),
			),
			Value: false,
		},
		newTldrFlag(),
	}

	return
}

// NewRendererFlags returns the flags that locate the PlantUML toolchain.
func NewRendererFlags(source string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "java",
			Usage: "java binary used to run PlantUML",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("PUMLCACHE_JAVA"),
				yaml.YAML("plantuml.java", altsrc.StringSourcer(source)),
			),
			Value: render.DefaultJava,
		},
		&cli.StringFlag{
			Name:  "jar",
			Usage: "PlantUML jar",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("PUMLCACHE_JAR"),
				yaml.YAML("plantuml.jar", altsrc.StringSourcer(source)),
			),
			Value: render.DefaultJar,
		},
		&cli.StringFlag{
			Name:  "graphviz",
			Usage: "Graphviz dot binary, \"none\" to let PlantUML find it",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("plantuml.graphviz", altsrc.StringSourcer(source)),
			),
			Value: render.DefaultGraphviz,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "maximum time to wait for a render",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("plantuml.timeout", altsrc.StringSourcer(source)),
			),
			Value: time.Minute,
		},
	}
}

// NewFormatFlag returns the image format flag, defaulting from
// <ns>.format and then format in the config file.
func NewFormatFlag(ns string, source string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"F"},
		Usage:   "image format (svg or png)",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+"."+"format", altsrc.StringSourcer(source)),
			yaml.YAML("format", altsrc.StringSourcer(source)),
		),
		Value: string(render.SVG),
		Validator: func(value string) error {
			return FlagValidators(value, FormatValidator)
		},
	}
}

// pathHas reports whether target is on the PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
