// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/pumlcache/internal/meta"
	"github.com/staranto/pumlcache/internal/preview"
	"github.com/staranto/pumlcache/internal/render"
)

// RenderCommandAction renders the document named by the first argument, or
// stdin when it is absent or "-", through the cache.
func RenderCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "render") {
		return nil
	}

	format, err := render.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	name, err := resolveDocument(cmd.Args().First())
	if err != nil {
		return err
	}
	doc, err := readDocument(name, cmd.Root().Reader)
	if err != nil {
		return err
	}

	c, err := OpenCache()
	if err != nil {
		return err
	}

	p := preview.New(c, &render.PlantUML{
		Java:     cmd.String("java"),
		Jar:      cmd.String("jar"),
		Graphviz: cmd.String("graphviz"),
	})

	rctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	res, err := p.Preview(rctx, doc, format)
	if err != nil {
		return err
	}
	log.Debugf("render: %s hit=%v (%d bytes)", res.Key, res.Hit, len(res.Data))

	if err := writeImage(cmd, res.Data); err != nil {
		return err
	}

	if name != "" && name != "-" {
		rememberDocument(name, m.StartingDir)
	}
	return nil
}

// resolveDocument maps ~N and partial names onto the recent documents list.
// Names of existing files pass through.
func resolveDocument(name string) (string, error) {
	if name == "" || name == "-" {
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	l, _, err := LoadRecent()
	if err != nil {
		return "", err
	}
	found, ferr := l.Find(name)
	if ferr != nil {
		if strings.HasPrefix(name, "~") {
			return "", ferr
		}
		return name, nil
	}
	log.Debugf("resolved %q to %q", name, found)
	return found, nil
}

func readDocument(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		doc, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return doc, nil
	}
	doc, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return doc, nil
}

func writeImage(cmd *cli.Command, data []byte) error {
	out := cmd.String("out")
	if out == "" || out == "-" {
		_, err := Writer(cmd).Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// rememberDocument records name in the recent documents list. Failures only
// cost the history, so they are logged.
func rememberDocument(name string, dir string) {
	if !filepath.IsAbs(name) && dir != "" {
		name = filepath.Join(dir, name)
	}
	l, p, err := LoadRecent()
	if err != nil {
		log.WithError(err).Warn("failed to load recent documents")
		return
	}
	l.Accessing(filepath.Clean(name))
	if err := l.Save(p); err != nil {
		log.WithError(err).Warn("failed to save recent documents")
	}
}

// RenderCommandBuilder constructs the cli.Command for "render", wiring
// metadata, flags, and action/validator handlers.
func RenderCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	source := meta.Config.Source
	return &cli.Command{
		Name:      "render",
		Usage:     "render a PlantUML document through the cache",
		UsageText: `pumlcache render [FILE|~N|-] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewFormatFlag("render", source),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"O"},
				Usage:   "write the image to a file instead of stdout",
			},
			newTldrFlag(),
		}, NewRendererFlags(source)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 1 {
				return errors.New("render takes at most one document")
			}
			return RenderCommandAction(ctx, cmd)
		},
	}
}
