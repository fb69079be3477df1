// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package render

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "svg", want: SVG},
		{in: "PNG", want: PNG},
		{in: " svg ", want: SVG},
		{in: "pdf", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlantUML_Args(t *testing.T) {
	p := &PlantUML{Java: "java", Jar: "/opt/plantuml.jar"}
	assert.Equal(t, []string{"-jar", "/opt/plantuml.jar", "-tsvg", "-pipe"}, p.Args(SVG))

	p.Graphviz = "/usr/bin/dot"
	assert.Equal(t,
		[]string{"-jar", "/opt/plantuml.jar", "-tpng", "-graphvizdot", "/usr/bin/dot", "-pipe"},
		p.Args(PNG))

	p.Graphviz = GraphvizNone
	assert.Equal(t, []string{"-jar", "/opt/plantuml.jar", "-tsvg", "-pipe"}, p.Args(SVG))
}

// fakeJava writes a script that stands in for the java binary.
func fakeJava(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in")
	}
	p := filepath.Join(t.TempDir(), "java")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return p
}

func TestPlantUML_Render(t *testing.T) {
	p := &PlantUML{Java: fakeJava(t, "cat"), Jar: "plantuml.jar"}
	out, err := p.Render(context.Background(), []byte("@startuml\n@enduml"), SVG)
	require.NoError(t, err)
	assert.Equal(t, "@startuml\n@enduml", string(out))
}

func TestPlantUML_RenderFailure(t *testing.T) {
	p := &PlantUML{Java: fakeJava(t, "echo 'syntax error' >&2; exit 1"), Jar: "plantuml.jar"}
	_, err := p.Render(context.Background(), []byte("bad"), SVG)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestPlantUML_NoOutput(t *testing.T) {
	p := &PlantUML{Java: fakeJava(t, "cat >/dev/null"), Jar: "plantuml.jar"}
	_, err := p.Render(context.Background(), []byte("doc"), PNG)
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestPlantUML_MissingBinary(t *testing.T) {
	p := &PlantUML{Java: filepath.Join(t.TempDir(), "nope"), Jar: "plantuml.jar"}
	_, err := p.Render(context.Background(), []byte("doc"), SVG)
	assert.Error(t, err)
}
