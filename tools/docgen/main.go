// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docgen turns docs/commands/<cmd>.md into a man page under
// docs/man/share/man1 and a tldr page under docs/tldr.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

const (
	fence   = "```"
	project = "https://github.com/staranto/pumlcache"
)

func main() {
	root := flag.String("root", ".", "repo root")
	onlyIfChanged := flag.Bool("only-if-changed", true, "only write files if content changed")
	flag.Parse()

	n, err := generate(*root, *onlyIfChanged)
	if err != nil {
		fatalf("%v", err)
	}
	if n == 0 {
		fatalf("no command markdown found under %s", filepath.Join(*root, "docs", "commands"))
	}
}

// generate renders every docs/commands/*.md under repoRoot and returns how
// many commands were processed.
func generate(repoRoot string, onlyIfChanged bool) (int, error) {
	src := filepath.Join(repoRoot, "docs", "commands")
	out := map[string]string{
		"man":  filepath.Join(repoRoot, "docs", "man", "share", "man1"),
		"tldr": filepath.Join(repoRoot, "docs", "tldr"),
	}
	for kind, dir := range out {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
			return 0, fmt.Errorf("creating %s output dir: %w", kind, err)
		}
	}

	if _, err := os.Stat(src); err != nil {
		return 0, fmt.Errorf("reading commands dir %s: %w", src, err)
	}
	files, err := filepath.Glob(filepath.Join(src, "*.md"))
	if err != nil {
		return 0, err
	}

	n := 0
	for _, file := range files {
		cmd := strings.TrimSuffix(filepath.Base(file), ".md")
		raw, err := os.ReadFile(file)
		if err != nil {
			return n, fmt.Errorf("reading %s: %w", file, err)
		}

		manPath := filepath.Join(out["man"], "pumlcache-"+cmd+".1")
		if err := writeFile(manPath, md2man.Render(raw), onlyIfChanged); err != nil {
			return n, fmt.Errorf("writing man page for %s: %w", cmd, err)
		}

		title, short := extractTitleAndShortDesc(string(raw))
		tldr := buildTLDR(cmd, title, short, extractQuickExamples(string(raw)))
		tldrPath := filepath.Join(out["tldr"], "pumlcache-"+cmd+".md")
		if err := writeFile(tldrPath, []byte(tldr), onlyIfChanged); err != nil {
			return n, fmt.Errorf("writing tldr page for %s: %w", cmd, err)
		}

		n++
	}

	return n, nil
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

// writeFile skips the write when onlyIfChanged is set and the file already
// holds the same content, ignoring surrounding whitespace.
func writeFile(path string, content []byte, onlyIfChanged bool) error {
	if onlyIfChanged {
		old, err := os.ReadFile(path)
		switch {
		case err == nil && bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)):
			return nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	return os.WriteFile(path, content, 0o644) //nolint:mnd,gosec
}

// sections splits md into its H1 title and the bodies of its H2 sections,
// keyed by lower-cased heading. Fenced blocks are never split.
func sections(md string) (title string, body map[string][]string) {
	body = map[string][]string{}
	current := ""
	inFence := false

	for _, ln := range strings.Split(md, "\n") {
		ln = strings.TrimRight(ln, "\r")
		trimmed := strings.TrimSpace(ln)
		if strings.HasPrefix(trimmed, fence) {
			inFence = !inFence
		}
		if !inFence {
			switch {
			case strings.HasPrefix(ln, "# ") && title == "":
				title = strings.TrimSpace(ln[2:])
				continue
			case strings.HasPrefix(ln, "## "):
				current = strings.ToLower(strings.TrimSpace(ln[3:]))
				continue
			}
		}
		if current != "" {
			body[current] = append(body[current], ln)
		}
	}
	return title, body
}

// extractTitleAndShortDesc returns the H1 title and the first paragraph of
// the "Short description" section, falling back to the title.
func extractTitleAndShortDesc(md string) (title, short string) {
	title, body := sections(md)

	var words []string
	for _, ln := range body["short description"] {
		if strings.TrimSpace(ln) == "" {
			if len(words) > 0 {
				break
			}
			continue
		}
		words = append(words, strings.TrimSpace(ln))
	}
	short = strings.Join(words, " ")

	if short == "" && title != "" {
		short = title + "."
	}
	return title, short
}

type example struct {
	Desc string
	Cmd  string
}

// extractQuickExamples reads the first fenced block of the "Quick examples"
// section. A "# " comment describes the command line that follows it.
func extractQuickExamples(md string) []example {
	_, body := sections(md)

	var exs []example
	desc := ""
	inFence := false
	for _, ln := range body["quick examples"] {
		s := strings.TrimSpace(ln)
		if strings.HasPrefix(s, fence) {
			if inFence {
				break
			}
			inFence = true
			continue
		}
		if !inFence || s == "" {
			continue
		}
		if strings.HasPrefix(s, "#") {
			desc = strings.TrimSpace(strings.TrimPrefix(s, "#"))
			continue
		}
		if desc == "" {
			desc = "Example"
		}
		exs = append(exs, example{Desc: desc, Cmd: s})
		desc = ""
	}
	return exs
}

func buildTLDR(cmd, title, short string, exs []example) string {
	summary := short
	if summary == "" {
		summary = title
	}
	if summary == "" {
		summary = "pumlcache " + cmd
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# pumlcache-%s\n\n> %s\n> More information: %s.\n\n", cmd, summary, project)

	if len(exs) == 0 {
		exs = []example{{Desc: "Show help for the command", Cmd: "pumlcache " + cmd + " --help"}}
	}
	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		// tldr wants single-spaced commands.
		fmt.Fprintf(&b, "- %s:\n\n`%s`\n", ex.Desc, strings.Join(strings.Fields(ex.Cmd), " "))
	}
	return b.String()
}
