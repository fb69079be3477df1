// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pumlcache/internal/meta"
	"github.com/staranto/pumlcache/internal/output"
)

// RecentCommandAction lists recently rendered documents, most recent first.
func RecentCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "recent") {
		return nil
	}

	l, p, err := LoadRecent()
	if err != nil {
		return err
	}

	if cmd.Bool("clear") {
		l.Clear()
		return l.Save(p)
	}

	docs := l.Documents()
	rows := make([]map[string]interface{}, 0, len(docs))
	for i, d := range docs {
		rows = append(rows, map[string]interface{}{"rank": i + 1, "document": d})
	}

	attrs := BuildAttrs(cmd, "!rank", "document")
	return output.SliceDiceSpit(rows, attrs, OutputOptions(cmd), Writer(cmd))
}

// RecentCommandBuilder constructs the cli.Command for "recent".
func RecentCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "recent",
		Usage:     "list recently rendered documents",
		UsageText: `pumlcache recent [--clear] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "forget all recent documents",
				Value: false,
			},
		}, NewGlobalFlags("recent", meta.Config.Source)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: RecentCommandAction,
	}
}
