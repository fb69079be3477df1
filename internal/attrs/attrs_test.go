// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package attrs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttrList_Set(t *testing.T) {
	tests := []struct {
		name      string
		initial   AttrList
		value     string
		wantAttrs AttrList
		wantErr   bool
	}{
		{
			name:  "empty value",
			value: "",
		},
		{
			name:  "star alone",
			value: "*",
		},
		{
			name:      "bare key",
			value:     "size",
			wantAttrs: AttrList{{Key: "size", Include: true, OutputKey: "size"}},
		},
		{
			name:  "title and transform",
			value: "size:bytes:h,accessed::r",
			wantAttrs: AttrList{
				{Key: "size", Include: true, OutputKey: "bytes", TransformSpec: "h"},
				{Key: "accessed", Include: true, OutputKey: "accessed", TransformSpec: "r"},
			},
		},
		{
			name:      "excluded key",
			value:     "!path",
			wantAttrs: AttrList{{Key: "path", Include: false, OutputKey: "path"}},
		},
		{
			name:      "leading dot is dropped",
			value:     ".key",
			wantAttrs: AttrList{{Key: "key", Include: true, OutputKey: "key"}},
		},
		{
			name:    "override existing default",
			initial: AttrList{{Key: "key", Include: true, OutputKey: "key"}},
			value:   "key:id:10",
			wantAttrs: AttrList{
				{Key: "key", Include: true, OutputKey: "id", TransformSpec: "10"},
			},
		},
		{
			name:      "global spec",
			value:     "*::U",
			wantAttrs: AttrList{{Key: "*", Include: false, OutputKey: "*", TransformSpec: "U"}},
		},
		{
			name:    "empty key",
			value:   ":title",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.initial
			err := a.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAttrs, a)
		})
	}
}

func TestAttrList_SetGlobalTransformSpec(t *testing.T) {
	a := AttrList{
		{Key: "*", TransformSpec: "U"},
		{Key: "key", TransformSpec: "l"},
		{Key: "path"},
	}
	require.NoError(t, a.SetGlobalTransformSpec())
	assert.Equal(t, "U,l", a[1].TransformSpec)
	assert.Equal(t, "U,", a[2].TransformSpec)

	// The attr's own case transform wins.
	assert.Equal(t, "abc", a[1].Transform("AbC"))
	assert.Equal(t, "ABC", a[2].Transform("AbC"))

	none := AttrList{{Key: "key", TransformSpec: "l"}}
	require.NoError(t, none.SetGlobalTransformSpec())
	assert.Equal(t, "l", none[0].TransformSpec)
}

func TestAttr_Transform(t *testing.T) {
	t.Setenv("TZ", "UTC")
	recent := time.Now().Add(-3 * time.Hour).UTC().Format(time.RFC3339)

	tests := []struct {
		name  string
		spec  string
		input interface{}
		want  interface{}
	}{
		{name: "no spec", spec: "", input: "Key", want: "Key"},
		{name: "upper", spec: "u", input: "abc", want: "ABC"},
		{name: "lower", spec: "L", input: "ABC", want: "abc"},
		{name: "truncate", spec: "5", input: "abcdefgh", want: "abcde"},
		{name: "short enough", spec: "10", input: "abc", want: "abc"},
		{name: "middle truncate", spec: "-8", input: "0123456789abcdef", want: "012..def"},
		{name: "bytes float", spec: "h", input: 2048.0, want: "2.0 KiB"},
		{name: "bytes int64", spec: "h", input: int64(5 * 1024 * 1024), want: "5.0 MiB"},
		{name: "non-string passthrough", spec: "u", input: 42.0, want: 42.0},
		{name: "relative", spec: "r", input: recent, want: "3 hours ago"},
		{name: "local", spec: "t", input: "2025-01-02T03:04:05Z", want: "2025-01-02T03:04:05UTC"},
		{name: "not a time", spec: "t", input: "abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Attr{TransformSpec: tt.spec}
			assert.Equal(t, tt.want, a.Transform(tt.input))
		})
	}
}

func TestAttr_Transform_TimezonePriority(t *testing.T) {
	t.Setenv("PUMLCACHE_CFG", "/nonexistent/pumlcache.yaml")
	t.Setenv("TZ", "America/New_York")

	a := Attr{TransformSpec: "t"}
	assert.Equal(t, "2025-01-02T10:00:00EST", a.Transform("2025-01-02T15:00:00Z"))
}

func TestAttrList_String(t *testing.T) {
	a := AttrList{
		{Key: "size", OutputKey: "bytes", TransformSpec: "h"},
		{Key: "key", OutputKey: "key"},
	}
	assert.Equal(t, "size:bytes:h,key:key:", a.String())
}

func TestAttrList_Type(t *testing.T) {
	a := AttrList{}
	assert.Equal(t, "list", a.Type())
}
