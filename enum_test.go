package gltrace_test

import (
	"bytes"
	"fmt"
	"slices"
	"testing"

	"github.com/stealthrocket/gltrace"
)

func TestDomains(t *testing.T) {
	tests := []struct {
		domain  *gltrace.Domain
		size    int
		outside uint32
	}{
		{gltrace.ComparisonFunc, 8, 0x0208},
		{gltrace.PrimitiveMode, 10, 0x000A},
		{gltrace.TextureTarget, 11, 0x0DE2},
		{gltrace.ListType, 10, 0x140A},
	}

	for _, test := range tests {
		t.Run(test.domain.String(), func(t *testing.T) {
			values := test.domain.Values()
			if len(values) != test.size {
				t.Errorf("wrong number of values: want=%d got=%d", test.size, len(values))
			}
			if !slices.IsSorted(values) {
				t.Errorf("values are not in ascending order: %#x", values)
			}
			seen := make(map[string]uint32)
			for _, v := range values {
				name, ok := test.domain.Name(v)
				if !ok || name == "" {
					t.Errorf("%#x has no name", v)
					continue
				}
				if prev, dup := seen[name]; dup {
					t.Errorf("%s names both %#x and %#x", name, prev, v)
				}
				seen[name] = v
			}
			if name, ok := test.domain.Name(test.outside); ok {
				t.Errorf("%#x is outside of the domain but maps to %s", test.outside, name)
			}
		})
	}
}

// Every value of a domain appears by name in the trace of a call that takes
// an argument of that domain.
func TestDomainRoundTrip(t *testing.T) {
	tests := []struct {
		domain *gltrace.Domain
		call   string
		args   func(uint32) gltrace.Values
		format string
	}{
		{gltrace.ComparisonFunc, "glAlphaFunc", func(v uint32) gltrace.Values { return gltrace.Values{v, 1.0} }, "glAlphaFunc(%s, 1.000000f);\n"},
		{gltrace.PrimitiveMode, "glBegin", func(v uint32) gltrace.Values { return gltrace.Values{v} }, "glBegin(%s);\n"},
		{gltrace.TextureTarget, "glBindTexture", func(v uint32) gltrace.Values { return gltrace.Values{v, 1} }, "glBindTexture(%s, 1);\n"},
		{gltrace.ListType, "glCallLists", func(v uint32) gltrace.Values { return gltrace.Values{1, v, nil} }, "glCallLists(1, %s, (nil));\n"},
	}

	for _, test := range tests {
		t.Run(test.call, func(t *testing.T) {
			for _, v := range test.domain.Values() {
				name, _ := test.domain.Name(v)
				var out bytes.Buffer
				args := test.args(v)
				gltrace.Decode(&out, gltrace.Call{Name: test.call, NumArgs: len(args), Args: args.Args()})
				if got, want := out.String(), fmt.Sprintf(test.format, name); got != want {
					t.Errorf("wrong trace:\nwant: %q\ngot:  %q", want, got)
				}
			}
		})
	}
}

func TestClearMaskOrder(t *testing.T) {
	// The same bits set in any order always print in the same order.
	masks := []gltrace.Bitfield{
		gltrace.ColorBufferBit | gltrace.DepthBufferBit | gltrace.AccumBufferBit | gltrace.StencilBufferBit,
		gltrace.StencilBufferBit | gltrace.AccumBufferBit | gltrace.DepthBufferBit | gltrace.ColorBufferBit,
		0xFFFFFFFF,
	}
	const want = "0 | GL_COLOR_BUFFER_BIT | GL_DEPTH_BUFFER_BIT | GL_ACCUM_BUFFER_BIT | GL_STENCIL_BUFFER_BIT"
	for _, mask := range masks {
		if got := gltrace.ClearMask.Format(mask); got != want {
			t.Errorf("%#x: wrong format:\nwant: %q\ngot:  %q", uint32(mask), want, got)
		}
	}
	if got := gltrace.ClearMask.Format(0x1 | 0x8000); got != "0" {
		t.Errorf("unrecognized bits were printed: %q", got)
	}
}

func TestEnumString(t *testing.T) {
	tests := []struct {
		enum gltrace.Enum
		want string
	}{
		{gltrace.Always, "GL_ALWAYS"},
		{gltrace.Texture2DMultisampleArray, "GL_TEXTURE_2D_MULTISAMPLE_ARRAY"},
		{gltrace.FourBytes, "GL_4_BYTES"},
		{gltrace.QuadStrip, "GL_QUAD_STRIP"},
		{0xBEEF, "Enum(0xbeef)"},
	}
	for _, test := range tests {
		if got := test.enum.String(); got != test.want {
			t.Errorf("wrong name: want=%q got=%q", test.want, got)
		}
	}
}
