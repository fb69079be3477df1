// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pumlcache/internal/cacheutil"
	"github.com/staranto/pumlcache/internal/meta"
)

// PruneCommandAction removes entries not accessed within --hours.
func PruneCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "prune") {
		return nil
	}

	hours := cmd.Int("hours")
	if hours == 0 {
		return errors.New("nothing to prune: set --hours or cache.clean")
	}

	c, err := cacheutil.Inspect()
	if err != nil {
		return err
	}

	n, err := cacheutil.Purge(c, hours)
	if err != nil {
		return err
	}
	fmt.Fprintf(Writer(cmd), "pruned %d entries older than %dh, %d left\n", n, hours, c.Size())
	return nil
}

// PruneCommandBuilder constructs the cli.Command for "prune".
func PruneCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "prune",
		Usage:     "remove renders not used recently",
		UsageText: `pumlcache prune [--hours N]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "hours",
				Usage: "remove entries last used more than this many hours ago",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("cache.clean", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: 0,
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
			newTldrFlag(),
		},
		Action: PruneCommandAction,
	}
}
