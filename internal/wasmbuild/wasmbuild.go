// Package wasmbuild assembles minimal WebAssembly programs that call
// imported host functions with constant arguments.
//
// The programs export a "_start" function and one page of memory, which is
// enough to exercise host modules from tests without compiling guests.
package wasmbuild

import (
	"encoding/binary"
	"math"

	wasmbinary "github.com/tetratelabs/wabin/binary"
	"github.com/tetratelabs/wabin/leb128"
	"github.com/tetratelabs/wabin/wasm"
	"github.com/tetratelabs/wazero/api"
)

// Value is an argument pushed before a call: a constant, or a 32-bit
// integer loaded from memory.
type Value struct {
	Type api.ValueType
	Bits uint64
	load bool
}

func I32(v int32) Value       { return Value{Type: api.ValueTypeI32, Bits: api.EncodeI32(v)} }
func U32(v uint32) Value      { return Value{Type: api.ValueTypeI32, Bits: api.EncodeU32(v)} }
func I64(v int64) Value       { return Value{Type: api.ValueTypeI64, Bits: api.EncodeI64(v)} }
func F32(v float32) Value     { return Value{Type: api.ValueTypeF32, Bits: api.EncodeF32(v)} }
func F64(v float64) Value     { return Value{Type: api.ValueTypeF64, Bits: api.EncodeF64(v)} }
func Ptr(offset uint32) Value { return U32(offset) }

// Load32 is the little-endian 32-bit integer in memory at offset when the
// call is made, such as a value written there by an earlier call.
func Load32(offset uint32) Value {
	return Value{Type: api.ValueTypeI32, Bits: uint64(offset), load: true}
}

// Func is the index of an imported function.
type Func uint32

// Program is a WebAssembly program under construction.
type Program struct {
	types   []*wasm.FunctionType
	imports []*wasm.Import
	data    []*wasm.DataSegment
	code    []byte
}

// Import declares a function imported by the program.
func (p *Program) Import(module, name string, params, results []api.ValueType) Func {
	p.types = append(p.types, &wasm.FunctionType{Params: params, Results: results})
	p.imports = append(p.imports, &wasm.Import{
		Type:     wasm.ExternTypeFunc,
		Module:   module,
		Name:     name,
		DescFunc: wasm.Index(len(p.types) - 1),
	})
	return Func(len(p.imports) - 1)
}

// Data places b in memory at offset.
func (p *Program) Data(offset uint32, b []byte) {
	p.data = append(p.data, &wasm.DataSegment{
		OffsetExpression: &wasm.ConstantExpression{
			Opcode: wasm.OpcodeI32Const,
			Data:   leb128.EncodeInt32(int32(offset)),
		},
		Init: b,
	})
}

// Float32s places the little-endian encoding of values in memory at offset.
func (p *Program) Float32s(offset uint32, values ...float32) {
	b := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	p.Data(offset, b)
}

// Call appends a call to fn with the given arguments to the start function.
// Results are dropped.
func (p *Program) Call(fn Func, args ...Value) {
	for _, arg := range args {
		if arg.load {
			p.code = append(p.code, wasm.OpcodeI32Const)
			p.code = append(p.code, leb128.EncodeInt32(int32(arg.Bits))...)
			p.code = append(p.code, wasm.OpcodeI32Load, 2, 0) // align=4, offset=0
			continue
		}
		switch arg.Type {
		case api.ValueTypeI32:
			p.code = append(p.code, wasm.OpcodeI32Const)
			p.code = append(p.code, leb128.EncodeInt32(api.DecodeI32(arg.Bits))...)
		case api.ValueTypeI64:
			p.code = append(p.code, wasm.OpcodeI64Const)
			p.code = append(p.code, leb128.EncodeInt64(int64(arg.Bits))...)
		case api.ValueTypeF32:
			p.code = append(p.code, wasm.OpcodeF32Const)
			p.code = binary.LittleEndian.AppendUint32(p.code, uint32(arg.Bits))
		case api.ValueTypeF64:
			p.code = append(p.code, wasm.OpcodeF64Const)
			p.code = binary.LittleEndian.AppendUint64(p.code, arg.Bits)
		default:
			panic("BUG: unsupported value type " + api.ValueTypeName(arg.Type))
		}
	}
	p.code = append(p.code, wasm.OpcodeCall)
	p.code = append(p.code, leb128.EncodeUint32(uint32(fn))...)
	for range p.types[p.imports[fn].DescFunc].Results {
		p.code = append(p.code, wasm.OpcodeDrop)
	}
}

// Bytes returns the binary encoding of the program.
func (p *Program) Bytes() []byte {
	start := wasm.Index(len(p.imports))
	types := append(p.types[:len(p.types):len(p.types)], &wasm.FunctionType{})

	body := append(p.code[:len(p.code):len(p.code)], wasm.OpcodeEnd)

	return wasmbinary.EncodeModule(&wasm.Module{
		TypeSection:     types,
		ImportSection:   p.imports,
		FunctionSection: []wasm.Index{wasm.Index(len(types) - 1)},
		MemorySection:   &wasm.Memory{Min: 1},
		ExportSection: []*wasm.Export{
			{Type: wasm.ExternTypeMemory, Name: "memory", Index: 0},
			{Type: wasm.ExternTypeFunc, Name: "_start", Index: start},
		},
		CodeSection: []*wasm.Code{{Body: body}},
		DataSection: p.data,
	})
}
