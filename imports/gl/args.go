package gl

import (
	"github.com/stealthrocket/gltrace"
	"github.com/tetratelabs/wazero/api"
)

// stackArgs reads call arguments from a host function stack. Pointers are
// offsets into the guest memory.
type stackArgs struct {
	types  []api.ValueType
	stack  []uint64
	memory api.Memory
}

func newStackArgs(types []api.ValueType, stack []uint64, memory api.Memory) *stackArgs {
	n := len(types)
	if n > len(stack) {
		n = len(stack)
	}
	return &stackArgs{types: types[:n], stack: stack[:n], memory: memory}
}

func (a *stackArgs) next() (api.ValueType, uint64) {
	if len(a.stack) == 0 {
		return api.ValueTypeI32, 0
	}
	t, v := a.types[0], a.stack[0]
	a.types, a.stack = a.types[1:], a.stack[1:]
	return t, v
}

func (a *stackArgs) Uint32() uint32 {
	_, v := a.next()
	return api.DecodeU32(v)
}

func (a *stackArgs) Int32() int32 {
	_, v := a.next()
	return api.DecodeI32(v)
}

func (a *stackArgs) Float() float64 {
	t, v := a.next()
	if t == api.ValueTypeF64 {
		return float64(float32(api.DecodeF64(v)))
	}
	return float64(api.DecodeF32(v))
}

func (a *stackArgs) Double() float64 {
	t, v := a.next()
	if t == api.ValueTypeF32 {
		return float64(api.DecodeF32(v))
	}
	return api.DecodeF64(v)
}

func (a *stackArgs) Pointer() uintptr {
	_, v := a.next()
	return uintptr(api.DecodeU32(v))
}

func (a *stackArgs) Floats(n int) []float32 {
	offset := uint32(a.Pointer())
	values := make([]float32, n)
	if a.memory == nil {
		return values
	}
	for i := range values {
		values[i], _ = a.memory.ReadFloat32Le(offset + uint32(4*i))
	}
	return values
}

var _ gltrace.Args = (*stackArgs)(nil)
