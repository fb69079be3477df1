// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package render turns PlantUML documents into images by running the
// PlantUML jar in pipe mode.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/apex/log"
)

// Format is an image format understood by PlantUML.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// Formats lists the supported formats.
var Formats = []Format{SVG, PNG}

// ParseFormat validates s, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Formats {
		if f == v {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported image format %q, must be one of %v", s, Formats)
}

// Renderer produces image bytes for a document.
type Renderer interface {
	Render(ctx context.Context, document []byte, f Format) ([]byte, error)
}

// Defaults used when nothing is configured.
const (
	DefaultJava     = "/usr/bin/java"
	DefaultJar      = "/usr/share/plantuml/plantuml.jar"
	DefaultGraphviz = "/usr/bin/dot"
)

// GraphvizNone leaves Graphviz discovery to PlantUML.
const GraphvizNone = "none"

// PlantUML runs `java -jar plantuml.jar -t<format> -pipe`.
type PlantUML struct {
	Java     string
	Jar      string
	Graphviz string
}

// ErrNoOutput is returned when PlantUML exits cleanly but writes nothing.
var ErrNoOutput = errors.New("renderer produced no output")

// Args returns the argument list passed to the java binary.
func (p *PlantUML) Args(f Format) []string {
	args := []string{"-jar", p.Jar, "-t" + string(f)}
	if p.Graphviz != "" && p.Graphviz != GraphvizNone {
		args = append(args, "-graphvizdot", p.Graphviz)
	}
	return append(args, "-pipe")
}

// Render feeds document to PlantUML on stdin and returns stdout.
func (p *PlantUML) Render(ctx context.Context, document []byte, f Format) ([]byte, error) {
	args := p.Args(f)
	log.Debugf("render: %s %v", p.Java, args)

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, p.Java, args...)
	c.Stdin = bytes.NewReader(document)
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("plantuml failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("plantuml failed: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, ErrNoOutput
	}
	return stdout.Bytes(), nil
}
