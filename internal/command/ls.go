// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pumlcache/internal/cache"
	"github.com/staranto/pumlcache/internal/fingerprint"
	"github.com/staranto/pumlcache/internal/meta"
	"github.com/staranto/pumlcache/internal/output"
)

var lsDefaultAttrs = []string{"key", "format", "size::h", "accessed::r", "!path"}

// LsCommandAction lists the cache entries, least recently used first.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "ls") {
		return nil
	}

	attrs := BuildAttrs(cmd, lsDefaultAttrs...)
	log.Debugf("attrs: %v", attrs)

	c, err := InspectCache()
	if err != nil {
		return err
	}

	return output.SliceDiceSpit(entryRows(c), attrs, OutputOptions(cmd), Writer(cmd))
}

// entryRows flattens the cache entries into rows for output.
func entryRows(c *cache.Cache) []map[string]interface{} {
	entries := c.Entries()
	rows := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		_, format, ok := fingerprint.Split(e.Key())
		if !ok {
			format = ""
		}
		rows = append(rows, map[string]interface{}{
			"key":      e.Key(),
			"format":   format,
			"size":     e.Cost(),
			"accessed": e.LastAccess().UTC().Format(time.RFC3339),
			"path":     e.Path(),
		})
	}
	return rows
}

// LsCommandBuilder constructs the cli.Command for "ls", wiring metadata,
// flags, and action/validator handlers.
func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list cached renders",
		UsageText: `pumlcache ls [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: NewGlobalFlags("ls", meta.Config.Source),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: LsCommandAction,
	}
}
