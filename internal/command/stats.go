// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pumlcache/internal/cache"
	"github.com/staranto/pumlcache/internal/meta"
	"github.com/staranto/pumlcache/internal/output"
)

var statsDefaultAttrs = []string{"path", "entries", "total::h", "max::h", "usage"}

// StatsCommandAction summarizes the cache in a single row.
func StatsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "stats") {
		return nil
	}

	attrs := BuildAttrs(cmd, statsDefaultAttrs...)

	c, err := InspectCache()
	if err != nil {
		return err
	}

	return output.SliceDiceSpit([]map[string]interface{}{statsRow(c)}, attrs, OutputOptions(cmd), Writer(cmd))
}

func statsRow(c *cache.Cache) map[string]interface{} {
	path := c.Path()
	if !c.IsDiskBacked() {
		path = "(memory)"
	}
	usage := "-"
	if c.MaxCost() > 0 {
		usage = fmt.Sprintf("%.1f%%", float64(c.TotalCost())*100/float64(c.MaxCost())) //nolint:mnd
	}
	return map[string]interface{}{
		"path":    path,
		"entries": c.Size(),
		"total":   c.TotalCost(),
		"max":     c.MaxCost(),
		"usage":   usage,
	}
}

// StatsCommandBuilder constructs the cli.Command for "stats".
func StatsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "summarize cache usage",
		UsageText: `pumlcache stats [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: NewGlobalFlags("stats", meta.Config.Source),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: StatsCommandAction,
	}
}
