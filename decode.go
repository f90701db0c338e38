package gltrace

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Outcome is the result of decoding a call.
type Outcome uint8

const (
	// Decoded means a trace line was written for the call.
	Decoded Outcome = iota

	// Silent means the call is recognized but intentionally not traced.
	Silent

	// Unrecognized means the call name is not in the catalog.
	Unrecognized

	// SetupFailed means the binding could not be loaded, so the call was
	// not looked at.
	SetupFailed
)

func (o Outcome) String() string {
	switch o {
	case Decoded:
		return "Decoded"
	case Silent:
		return "Silent"
	case Unrecognized:
		return "Unrecognized"
	case SetupFailed:
		return "SetupFailed"
	default:
		return fmt.Sprintf("Outcome(%d)", o)
	}
}

// Decode writes the trace line of call to w.
//
// Silent entry points write nothing and leave call.Args untouched. Calls
// that are not in the catalog return Unrecognized and an error of type
// *UnrecognizedCallError; nothing is written in that case either.
func Decode(w io.Writer, call Call) (Outcome, error) {
	entry, ok := Lookup(call.Name)
	if !ok {
		return Unrecognized, &UnrecognizedCallError{Name: call.Name, NumArgs: call.NumArgs}
	}
	if entry.Silent {
		return Silent, nil
	}
	_, err := io.WriteString(w, Format(entry, call.Args))
	return Decoded, err
}

// Format reads the arguments of entry from args and renders them as a C
// call statement terminated by a line break.
func Format(entry *EntryPoint, args Args) string {
	var b strings.Builder
	b.WriteString(entry.Name)
	b.WriteByte('(')
	for i, p := range entry.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		formatArg(&b, p, args)
	}
	b.WriteString(");\n")
	return b.String()
}

func formatArg(b *strings.Builder, p Param, args Args) {
	switch p.Kind {
	case EnumKind:
		// Values outside of the domain print nothing.
		if name, ok := p.Domain.Name(args.Uint32()); ok {
			b.WriteString(name)
		}
	case BitmaskKind:
		b.WriteString(p.Bits.Format(Bitfield(args.Uint32())))
	case UintKind:
		// GLuint goes through "%d".
		b.WriteString(strconv.Itoa(int(int32(args.Uint32()))))
	case IntKind, BooleanKind:
		b.WriteString(strconv.Itoa(int(args.Int32())))
	case FloatKind:
		formatFloat(b, args.Float())
	case DoubleKind:
		b.WriteString(formatDouble(args.Double()))
	case PointerKind:
		b.WriteString(formatPointer(args.Pointer()))
	case FloatArrayKind:
		for i, f := range args.Floats(p.Count) {
			if i > 0 {
				b.WriteString(", ")
			}
			formatFloat(b, float64(f))
		}
	default:
		panic(fmt.Sprintf("BUG: %s argument cannot be formatted", p.Kind))
	}
}

func formatFloat(b *strings.Builder, f float64) {
	b.WriteString(formatDouble(f))
	b.WriteByte('f')
}

// formatDouble formats f the way printf formats "%f".
func formatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		if math.Signbit(f) {
			return "-nan"
		}
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// formatPointer formats p the way glibc formats "%p".
func formatPointer(p uintptr) string {
	if p == 0 {
		return "(nil)"
	}
	return "0x" + strconv.FormatUint(uint64(p), 16)
}
