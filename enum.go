package gltrace

import (
	"fmt"
	"slices"
	"strings"
)

// Enum is an OpenGL enumerant (GLenum).
type Enum uint32

const (
	// Comparison functions.
	Never    Enum = 0x0200
	Less     Enum = 0x0201
	Equal    Enum = 0x0202
	LEqual   Enum = 0x0203
	Greater  Enum = 0x0204
	NotEqual Enum = 0x0205
	GEqual   Enum = 0x0206
	Always   Enum = 0x0207

	// Primitive modes.
	Points        Enum = 0x0000
	Lines         Enum = 0x0001
	LineLoop      Enum = 0x0002
	LineStrip     Enum = 0x0003
	Triangles     Enum = 0x0004
	TriangleStrip Enum = 0x0005
	TriangleFan   Enum = 0x0006
	Quads         Enum = 0x0007
	QuadStrip     Enum = 0x0008
	Polygon       Enum = 0x0009

	// Texture targets.
	Texture1D                 Enum = 0x0DE0
	Texture2D                 Enum = 0x0DE1
	Texture3D                 Enum = 0x806F
	Texture1DArray            Enum = 0x8C18
	Texture2DArray            Enum = 0x8C1A
	TextureRectangle          Enum = 0x84F5
	TextureCubeMap            Enum = 0x8513
	TextureCubeMapArray       Enum = 0x9009
	TextureBuffer             Enum = 0x8C2A
	Texture2DMultisample      Enum = 0x9100
	Texture2DMultisampleArray Enum = 0x9102

	// Display list element types.
	Byte          Enum = 0x1400
	UnsignedByte  Enum = 0x1401
	Short         Enum = 0x1402
	UnsignedShort Enum = 0x1403
	Int           Enum = 0x1404
	UnsignedInt   Enum = 0x1405
	Float         Enum = 0x1406
	TwoBytes      Enum = 0x1407
	ThreeBytes    Enum = 0x1408
	FourBytes     Enum = 0x1409
)

// Symbol is the canonical name of a value within a domain.
type Symbol struct {
	Value uint32
	Name  string
}

// Domain is the set of legal values for an enumerated argument position,
// for example the comparison functions accepted by glAlphaFunc.
//
// Domains are built once at package initialization and never mutated.
type Domain struct {
	name    string
	symbols map[uint32]string
}

func makeDomain(name string, symbols ...Symbol) *Domain {
	d := &Domain{name: name, symbols: make(map[uint32]string, len(symbols))}
	for _, s := range symbols {
		if _, exists := d.symbols[s.Value]; exists {
			panic("BUG: duplicate value in domain " + name + ": " + s.Name)
		}
		d.symbols[s.Value] = s.Name
	}
	return d
}

// String returns the name of the domain.
func (d *Domain) String() string { return d.name }

// Name returns the symbolic name of v, and false if v is not part of the
// domain.
func (d *Domain) Name(v uint32) (string, bool) {
	name, ok := d.symbols[v]
	return name, ok
}

// Values returns the values of the domain in ascending order.
func (d *Domain) Values() []uint32 {
	values := make([]uint32, 0, len(d.symbols))
	for v := range d.symbols {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

var (
	// ComparisonFunc is the domain of depth, stencil and alpha test
	// comparison functions.
	ComparisonFunc = makeDomain("ComparisonFunc",
		Symbol{uint32(Never), "GL_NEVER"},
		Symbol{uint32(Less), "GL_LESS"},
		Symbol{uint32(Equal), "GL_EQUAL"},
		Symbol{uint32(LEqual), "GL_LEQUAL"},
		Symbol{uint32(Greater), "GL_GREATER"},
		Symbol{uint32(NotEqual), "GL_NOTEQUAL"},
		Symbol{uint32(GEqual), "GL_GEQUAL"},
		Symbol{uint32(Always), "GL_ALWAYS"},
	)

	// PrimitiveMode is the domain of primitive topologies accepted by
	// glBegin.
	PrimitiveMode = makeDomain("PrimitiveMode",
		Symbol{uint32(Points), "GL_POINTS"},
		Symbol{uint32(Lines), "GL_LINES"},
		Symbol{uint32(LineStrip), "GL_LINE_STRIP"},
		Symbol{uint32(LineLoop), "GL_LINE_LOOP"},
		Symbol{uint32(Triangles), "GL_TRIANGLES"},
		Symbol{uint32(TriangleStrip), "GL_TRIANGLE_STRIP"},
		Symbol{uint32(TriangleFan), "GL_TRIANGLE_FAN"},
		Symbol{uint32(Quads), "GL_QUADS"},
		Symbol{uint32(QuadStrip), "GL_QUAD_STRIP"},
		Symbol{uint32(Polygon), "GL_POLYGON"},
	)

	// TextureTarget is the domain of texture binding points.
	TextureTarget = makeDomain("TextureTarget",
		Symbol{uint32(Texture1D), "GL_TEXTURE_1D"},
		Symbol{uint32(Texture2D), "GL_TEXTURE_2D"},
		Symbol{uint32(Texture3D), "GL_TEXTURE_3D"},
		Symbol{uint32(Texture1DArray), "GL_TEXTURE_1D_ARRAY"},
		Symbol{uint32(Texture2DArray), "GL_TEXTURE_2D_ARRAY"},
		Symbol{uint32(TextureRectangle), "GL_TEXTURE_RECTANGLE"},
		Symbol{uint32(TextureCubeMap), "GL_TEXTURE_CUBE_MAP"},
		Symbol{uint32(TextureCubeMapArray), "GL_TEXTURE_CUBE_MAP_ARRAY"},
		Symbol{uint32(TextureBuffer), "GL_TEXTURE_BUFFER"},
		Symbol{uint32(Texture2DMultisample), "GL_TEXTURE_2D_MULTISAMPLE"},
		Symbol{uint32(Texture2DMultisampleArray), "GL_TEXTURE_2D_MULTISAMPLE_ARRAY"},
	)

	// ListType is the domain of element types of the name array passed to
	// glCallLists.
	ListType = makeDomain("ListType",
		Symbol{uint32(Byte), "GL_BYTE"},
		Symbol{uint32(UnsignedByte), "GL_UNSIGNED_BYTE"},
		Symbol{uint32(Short), "GL_SHORT"},
		Symbol{uint32(UnsignedShort), "GL_UNSIGNED_SHORT"},
		Symbol{uint32(Int), "GL_INT"},
		Symbol{uint32(UnsignedInt), "GL_UNSIGNED_INT"},
		Symbol{uint32(Float), "GL_FLOAT"},
		Symbol{uint32(TwoBytes), "GL_2_BYTES"},
		Symbol{uint32(ThreeBytes), "GL_3_BYTES"},
		Symbol{uint32(FourBytes), "GL_4_BYTES"},
	)
)

// Bitfield is an OpenGL bit mask (GLbitfield).
type Bitfield uint32

const (
	DepthBufferBit   Bitfield = 0x00000100
	AccumBufferBit   Bitfield = 0x00000200
	StencilBufferBit Bitfield = 0x00000400
	ColorBufferBit   Bitfield = 0x00004000
)

// Has is true if the flag is set.
func (mask Bitfield) Has(f Bitfield) bool {
	return (mask & f) == f
}

// Bit is a named flag of a BitSet.
type Bit struct {
	Mask Bitfield
	Name string
}

// BitSet is an ordered list of recognized flags. The order is the order in
// which set bits are printed.
type BitSet struct {
	name string
	bits []Bit
}

func makeBitSet(name string, bits ...Bit) *BitSet {
	return &BitSet{name: name, bits: bits}
}

// String returns the name of the bit set.
func (s *BitSet) String() string { return s.name }

// Bits returns the recognized flags in print order.
func (s *BitSet) Bits() []Bit { return s.bits }

// Format renders mask as a C bitwise-or expression starting from the zero
// literal, for example "0 | GL_COLOR_BUFFER_BIT". Unrecognized bits are
// dropped.
func (s *BitSet) Format(mask Bitfield) string {
	var b strings.Builder
	b.WriteString("0")
	for _, bit := range s.bits {
		if mask.Has(bit.Mask) {
			b.WriteString(" | ")
			b.WriteString(bit.Name)
		}
	}
	return b.String()
}

// ClearMask is the set of buffers accepted by glClear.
var ClearMask = makeBitSet("ClearMask",
	Bit{ColorBufferBit, "GL_COLOR_BUFFER_BIT"},
	Bit{DepthBufferBit, "GL_DEPTH_BUFFER_BIT"},
	Bit{AccumBufferBit, "GL_ACCUM_BUFFER_BIT"},
	Bit{StencilBufferBit, "GL_STENCIL_BUFFER_BIT"},
)

// String returns the symbolic name of e if any domain knows it. Values
// shared by several domains resolve to the first match in domain order.
func (e Enum) String() string {
	for _, d := range domains {
		if name, ok := d.Name(uint32(e)); ok {
			return name
		}
	}
	return fmt.Sprintf("Enum(%#04x)", uint32(e))
}

var domains = [...]*Domain{
	ComparisonFunc,
	TextureTarget,
	ListType,
	PrimitiveMode,
}
