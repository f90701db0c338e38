package gltrace

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Call is the record of one intercepted OpenGL invocation.
//
// The record is only valid for the duration of the interception; Args is a
// cursor that is consumed as the arguments are read.
type Call struct {
	// Name is the entry point name, e.g. "glBegin".
	Name string

	// Func is an opaque reference to the function being called. It is
	// carried along for the binding and never decoded.
	Func uintptr

	// NumArgs is the number of arguments declared by the call site.
	NumArgs int

	// Args reads the arguments of the call in declaration order.
	Args Args
}

// Args is a cursor over the untyped argument list of a call. The caller
// decides the type of each argument from the entry point's signature, the
// same way variadic arguments are extracted in C.
//
// Reading past the end of the list yields zero values.
type Args interface {
	// Uint32 reads a GLenum, GLuint or GLbitfield argument.
	Uint32() uint32

	// Int32 reads a GLint, GLsizei or GLboolean argument.
	Int32() int32

	// Float reads a single-precision argument. The value is returned as
	// float64, as if it went through default argument promotion.
	Float() float64

	// Double reads a double-precision argument.
	Double() float64

	// Pointer reads an address argument.
	Pointer() uintptr

	// Floats reads a pointer argument and returns the n floats it points
	// to.
	Floats(n int) []float32
}

// Values is an implementation of Args over Go values, for bindings that
// intercept calls made from Go.
//
// Integer arguments may be any Go integer type (including Enum and
// Bitfield), floating point arguments float32 or float64, and pointers
// uintptr, unsafe.Pointer, nil, or any pointer or slice value. Float arrays
// may be given as []float32, *float32 or *[N]float32.
type Values []any

// Args returns a cursor over the values.
func (v Values) Args() Args { return &valuesArgs{values: v} }

type valuesArgs struct {
	values Values
	index  int
}

func (a *valuesArgs) next() any {
	if a.index >= len(a.values) {
		return nil
	}
	v := a.values[a.index]
	a.index++
	return v
}

func (a *valuesArgs) Uint32() uint32 { return uint32(toInt64(a.next())) }

func (a *valuesArgs) Int32() int32 { return int32(toInt64(a.next())) }

func (a *valuesArgs) Float() float64 {
	switch v := a.next().(type) {
	case float32:
		return float64(v)
	case float64:
		return float64(float32(v))
	case nil:
		return 0
	default:
		return float64(float32(toInt64(v)))
	}
}

func (a *valuesArgs) Double() float64 {
	switch v := a.next().(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case nil:
		return 0
	default:
		return float64(toInt64(v))
	}
}

func (a *valuesArgs) Pointer() uintptr { return toPointer(a.next()) }

func (a *valuesArgs) Floats(n int) []float32 {
	var src []float32
	switch v := a.next().(type) {
	case []float32:
		src = v
	case *float32:
		if v != nil {
			src = unsafe.Slice(v, n)
		}
	case *[2]float32:
		src = v[:]
	case *[3]float32:
		src = v[:]
	case *[4]float32:
		src = v[:]
	case *[16]float32:
		src = v[:]
	}
	values := make([]float32, n)
	copy(values, src)
	return values
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case uintptr:
		return int64(x)
	case Enum:
		return int64(x)
	case Bitfield:
		return int64(x)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(rv.Uint())
	}
	panic(fmt.Sprintf("BUG: %T is not an integer argument", v))
}

func toPointer(v any) uintptr {
	switch x := v.(type) {
	case nil:
		return 0
	case uintptr:
		return x
	case unsafe.Pointer:
		return uintptr(x)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.Pointer()
	}
	return uintptr(toInt64(v))
}
