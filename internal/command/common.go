// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pumlcache/internal/attrs"
	"github.com/staranto/pumlcache/internal/cache"
	"github.com/staranto/pumlcache/internal/cacheutil"
	"github.com/staranto/pumlcache/internal/config"
	"github.com/staranto/pumlcache/internal/meta"
	"github.com/staranto/pumlcache/internal/output"
	"github.com/staranto/pumlcache/internal/recent"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr pumlcache-<subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "pumlcache-"+subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs. The global transform spec is applied at output time.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
	}
	return
}

// OutputOptions collects the presentation flags of cmd.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Output: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// Writer returns the root command's writer, stdout by default.
func Writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OpenCache opens the configured cache for rendering and prunes entries older
// than cache.clean hours.
func OpenCache() (*cache.Cache, error) {
	c, err := cacheutil.Open()
	if err != nil {
		return nil, err
	}
	if _, err := cacheutil.Purge(c, cacheutil.CleanHours()); err != nil {
		return nil, err
	}
	log.Debugf("cache: %d entries, %d of %d bytes at %q", c.Size(), c.TotalCost(), c.MaxCost(), c.Path())
	return c, nil
}

// InspectCache opens the configured cache without evicting or pruning
// anything, for the listing commands.
func InspectCache() (*cache.Cache, error) {
	c, err := cacheutil.Inspect()
	if err != nil {
		return nil, err
	}
	log.Debugf("cache: %d entries, %d of %d bytes at %q", c.Size(), c.TotalCost(), c.MaxCost(), c.Path())
	return c, nil
}

// RecentFile returns where the recent documents list is kept: recent.file
// from the config, else pumlcache/recent.yaml under the user config dir.
func RecentFile() string {
	if p, _ := config.GetString("recent.file", ""); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pumlcache", "recent.yaml")
}

// LoadRecent reads the recent documents list sized by recent.max.
func LoadRecent() (*recent.List, string, error) {
	n, _ := config.GetInt("recent.max", recent.DefaultMax)
	l := recent.New(n)
	p := RecentFile()
	if err := l.Load(p); err != nil {
		return nil, p, err
	}
	return l, p, nil
}
