package gltrace

import (
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// Kind is the type of an entry point argument or result.
type Kind uint8

const (
	// Void is only valid as a result kind.
	Void Kind = iota

	// EnumKind is a GLenum decoded through a Domain.
	EnumKind

	// BitmaskKind is a GLbitfield decoded through a BitSet.
	BitmaskKind

	// UintKind is a GLuint.
	UintKind

	// IntKind is a GLint or GLsizei.
	IntKind

	// BooleanKind is a GLboolean.
	BooleanKind

	// FloatKind is a GLfloat or GLclampf.
	FloatKind

	// DoubleKind is a GLdouble.
	DoubleKind

	// PointerKind is an address printed without dereferencing it.
	PointerKind

	// FloatArrayKind is a pointer to a fixed number of GLfloat.
	FloatArrayKind
)

var kindStrings = [...]string{
	Void:           "Void",
	EnumKind:       "Enum",
	BitmaskKind:    "Bitmask",
	UintKind:       "Uint",
	IntKind:        "Int",
	BooleanKind:    "Boolean",
	FloatKind:      "Float",
	DoubleKind:     "Double",
	PointerKind:    "Pointer",
	FloatArrayKind: "FloatArray",
}

func (k Kind) String() string {
	if int(k) < len(kindStrings) {
		return kindStrings[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Param describes one argument of an entry point.
type Param struct {
	Name string
	Kind Kind

	// Domain is the symbol table of EnumKind arguments. A nil domain is
	// only allowed on silent entry points.
	Domain *Domain

	// Bits is the flag set of BitmaskKind arguments.
	Bits *BitSet

	// Count is the number of elements read for FloatArrayKind arguments.
	Count int
}

// EntryPoint describes an OpenGL function known to the tracer.
type EntryPoint struct {
	Name   string
	Params []Param
	Result Kind

	// Silent entry points are recognized but produce no trace line; their
	// arguments are never read.
	Silent bool
}

func (e *EntryPoint) String() string {
	return e.Name
}

func enum(name string, domain *Domain) Param { return Param{Name: name, Kind: EnumKind, Domain: domain} }
func mask(name string, bits *BitSet) Param    { return Param{Name: name, Kind: BitmaskKind, Bits: bits} }
func u32(name string) Param                   { return Param{Name: name, Kind: UintKind} }
func i32(name string) Param                   { return Param{Name: name, Kind: IntKind} }
func boolean(name string) Param               { return Param{Name: name, Kind: BooleanKind} }
func f32(name string) Param                   { return Param{Name: name, Kind: FloatKind} }
func f64(name string) Param                   { return Param{Name: name, Kind: DoubleKind} }
func ptr(name string) Param                   { return Param{Name: name, Kind: PointerKind} }
func vec(name string, n int) Param            { return Param{Name: name, Kind: FloatArrayKind, Count: n} }

func decoded(name string, params ...Param) *EntryPoint {
	return &EntryPoint{Name: name, Params: params}
}

func silent(name string, params ...Param) *EntryPoint {
	return &EntryPoint{Name: name, Params: params, Silent: true}
}

func returning(result Kind, e *EntryPoint) *EntryPoint {
	e.Result = result
	return e
}

var catalog = makeCatalog(
	decoded("glAlphaFunc", enum("func", ComparisonFunc), f32("ref")),
	decoded("glBegin", enum("mode", PrimitiveMode)),
	decoded("glBindTexture", enum("target", TextureTarget), u32("texture")),
	decoded("glCallList", u32("list")),
	decoded("glCallLists", i32("n"), enum("type", ListType), ptr("lists")),
	decoded("glClear", mask("mask", ClearMask)),
	decoded("glClearColor", f32("red"), f32("green"), f32("blue"), f32("alpha")),
	decoded("glColor3fv", vec("v", 3)),
	decoded("glColor4fv", vec("v", 4)),
	decoded("glDeleteLists", u32("list"), i32("range")),
	decoded("glDeleteTextures", i32("n"), ptr("textures")),
	silent("glDepthMask", boolean("flag")),
	silent("glDisable", enum("cap", nil)),
	silent("glDrawElements", enum("mode", nil), i32("count"), enum("type", nil), ptr("indices")),
	silent("glEnable", enum("cap", nil)),
	decoded("glEnd"),
	silent("glEndList"),
	silent("glFinish"),
	silent("glFogf", enum("pname", nil), f32("param")),
	silent("glFogfv", enum("pname", nil), vec("params", 4)),
	silent("glFogi", enum("pname", nil), i32("param")),
	silent("glFrontFace", enum("mode", nil)),
	silent("glFrustum", f64("left"), f64("right"), f64("bottom"), f64("top"), f64("zNear"), f64("zFar")),
	returning(UintKind, silent("glGenLists", i32("range"))),
	silent("glGenTextures", i32("n"), ptr("textures")),
	returning(EnumKind, silent("glGetError")),
	silent("glGetFloatv", enum("pname", nil), ptr("data")),
	silent("glGetIntegerv", enum("pname", nil), ptr("data")),
	returning(PointerKind, silent("glGetString", enum("name", nil))),
	returning(PointerKind, silent("glGetStringi", enum("name", nil), u32("index"))),
	silent("glGetTexLevelParameteriv", enum("target", nil), i32("level"), enum("pname", nil), ptr("params")),
	silent("glLightfv", enum("light", nil), enum("pname", nil), vec("params", 4)),
	silent("glLightModelfv", enum("pname", nil), vec("params", 4)),
	silent("glLightModeli", enum("pname", nil), i32("param")),
	silent("glLoadIdentity"),
	silent("glLoadMatrixf", vec("m", 16)),
	silent("glMaterialf", enum("face", nil), enum("pname", nil), f32("param")),
	silent("glMaterialfv", enum("face", nil), enum("pname", nil), vec("params", 4)),
	silent("glMatrixMode", enum("mode", nil)),
	silent("glMultMatrixf", vec("m", 16)),
	silent("glNewList", u32("list"), enum("mode", nil)),
	silent("glNormal3f", f32("nx"), f32("ny"), f32("nz")),
	silent("glNormal3fv", vec("v", 3)),
	silent("glOrtho", f64("left"), f64("right"), f64("bottom"), f64("top"), f64("zNear"), f64("zFar")),
	silent("glPixelStorei", enum("pname", nil), i32("param")),
	silent("glPolygonOffset", f32("factor"), f32("units")),
	silent("glPopAttrib"),
	silent("glPopMatrix"),
	silent("glPushAttrib", mask("mask", nil)),
	silent("glPushMatrix"),
	silent("glRotatef", f32("angle"), f32("x"), f32("y"), f32("z")),
	silent("glScalef", f32("x"), f32("y"), f32("z")),
	silent("glShadeModel", enum("mode", nil)),
	silent("glTexCoord1fv", vec("v", 1)),
	silent("glTexCoord2f", f32("s"), f32("t")),
	silent("glTexCoord2fv", vec("v", 2)),
	silent("glTexEnvf", enum("target", nil), enum("pname", nil), f32("param")),
	silent("glTexEnvfv", enum("target", nil), enum("pname", nil), vec("params", 4)),
	silent("glTexEnvi", enum("target", nil), enum("pname", nil), i32("param")),
	silent("glTexGenfv", enum("coord", nil), enum("pname", nil), vec("params", 4)),
	silent("glTexGeni", enum("coord", nil), enum("pname", nil), i32("param")),
	silent("glTexImage1D", enum("target", nil), i32("level"), i32("internalformat"), i32("width"), i32("border"), enum("format", nil), enum("type", nil), ptr("pixels")),
	silent("glTexImage2D", enum("target", nil), i32("level"), i32("internalformat"), i32("width"), i32("height"), i32("border"), enum("format", nil), enum("type", nil), ptr("pixels")),
	silent("glTexParameterf", enum("target", nil), enum("pname", nil), f32("param")),
	silent("glTexParameterfv", enum("target", nil), enum("pname", nil), vec("params", 4)),
	silent("glTexParameteri", enum("target", nil), enum("pname", nil), i32("param")),
	silent("glTranslated", f64("x"), f64("y"), f64("z")),
	silent("glTranslatef", f32("x"), f32("y"), f32("z")),
	decoded("glVertex3f", f32("x"), f32("y"), f32("z")),
	decoded("glVertex3fv", vec("v", 3)),
	silent("glViewport", i32("x"), i32("y"), i32("width"), i32("height")),
)

func makeCatalog(entries ...*EntryPoint) map[string]*EntryPoint {
	c := make(map[string]*EntryPoint, len(entries))
	for _, e := range entries {
		if _, exists := c[e.Name]; exists {
			panic("BUG: duplicate entry point: " + e.Name)
		}
		for _, p := range e.Params {
			if e.Silent {
				continue
			}
			switch {
			case p.Kind == EnumKind && p.Domain == nil:
				panic("BUG: " + e.Name + ": enum argument " + p.Name + " has no domain")
			case p.Kind == BitmaskKind && p.Bits == nil:
				panic("BUG: " + e.Name + ": bitmask argument " + p.Name + " has no bit set")
			}
		}
		c[e.Name] = e
	}
	return c
}

// Lookup returns the entry point registered under name. The match is exact.
func Lookup(name string) (*EntryPoint, bool) {
	e, ok := catalog[name]
	return e, ok
}

// Names returns the names of all entry points known to the tracer, sorted.
func Names() []string {
	names := maps.Keys(catalog)
	slices.Sort(names)
	return names
}

// DecodedNames returns the sorted names of entry points that produce a
// trace line.
func DecodedNames() []string { return filterNames(false) }

// SilentNames returns the sorted names of entry points that are recognized
// but produce no trace line.
func SilentNames() []string { return filterNames(true) }

func filterNames(silent bool) []string {
	names := Names()
	i := 0
	for _, name := range names {
		if catalog[name].Silent == silent {
			names[i] = name
			i++
		}
	}
	return names[:i]
}
