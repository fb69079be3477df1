// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pumlcache/internal/cacheutil"
	"github.com/staranto/pumlcache/internal/meta"
)

// ClearCommandAction removes every cached render and its file.
func ClearCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "clear") {
		return nil
	}

	c, err := cacheutil.Inspect()
	if err != nil {
		return err
	}
	n, size := c.Size(), c.TotalCost()

	if err := c.ClearFromDisk(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintf(Writer(cmd), "removed %d entries (%s)\n", n, humanize.IBytes(uint64(size)))
	return nil
}

// ClearCommandBuilder constructs the cli.Command for "clear".
func ClearCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "clear",
		Usage:     "remove all cached renders",
		UsageText: `pumlcache clear [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			newTldrFlag(),
		},
		Action: ClearCommandAction,
	}
}
