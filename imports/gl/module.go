package gl

import (
	"context"
	"fmt"
	"os"

	"github.com/stealthrocket/gltrace"
	"github.com/stealthrocket/wazergo"
	. "github.com/stealthrocket/wazergo/types"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ModuleName is the name guests import OpenGL entry points from.
const ModuleName = "gl"

// HostModule is a wazero host module exposing the OpenGL entry points known
// to the tracer.
//
// Every call made by the guest is handed to the Interceptor before being
// forwarded to the Binding configured with WithBinding. The host module does
// not implement OpenGL on its own; it only translates the guest's stack and
// memory into gltrace.Call values.
//
// The one-time setup is tracked by the Interceptor. Instances created without
// WithInterceptor each get their own, so instances sharing a Binding should
// also share an Interceptor for the binding to be loaded only once.
var HostModule wazergo.HostModule[*Module] = functions(catalogFunctions())

// Imports returns a host module exposing the catalog, extended with every
// function the compiled guest imports from ModuleName that the catalog does
// not know. Calling one of those reaches the interceptor as an unrecognized
// call instead of failing to link.
//
// Imports of catalog entry points are not adapted: a guest importing one with
// a signature other than the one returned by Signature fails to instantiate
// with the linker error of wazero, the interceptor never sees it.
func Imports(compiled wazero.CompiledModule) wazergo.HostModule[*Module] {
	fns := catalogFunctions()
	for _, def := range compiled.ImportedFunctions() {
		moduleName, name, isImport := def.Import()
		if !isImport || moduleName != ModuleName {
			continue
		}
		if _, exists := fns[name]; exists {
			continue
		}
		fns[name] = unknownFunction(name, def.ParamTypes(), def.ResultTypes())
	}
	return functions(fns)
}

// Option configures the host module.
type Option = wazergo.Option[*Module]

// WithInterceptor sets the interceptor calls are traced with.
func WithInterceptor(interceptor *gltrace.Interceptor) Option {
	return wazergo.OptionFunc(func(m *Module) {
		m.Interceptor = interceptor
	})
}

// WithBinding sets the OpenGL implementation calls are forwarded to.
func WithBinding(binding gltrace.Binding) Option {
	return wazergo.OptionFunc(func(m *Module) {
		m.Binding = binding
	})
}

type functions wazergo.Functions[*Module]

func (f functions) Name() string {
	return ModuleName
}

func (f functions) Functions() wazergo.Functions[*Module] {
	return (wazergo.Functions[*Module])(f)
}

// Instantiate creates a module instance. Without WithBinding, calls are
// forwarded to gltrace.NullBinding; without WithInterceptor, they are traced
// to os.Stdout. An interceptor with no Setup function is modified to load
// the binding on first use.
func (f functions) Instantiate(ctx context.Context, opts ...Option) (*Module, error) {
	mod := &Module{}
	wazergo.Configure(mod, opts...)
	if mod.Binding == nil {
		mod.Binding = gltrace.NullBinding{}
	}
	if mod.Interceptor == nil {
		mod.Interceptor = &gltrace.Interceptor{Writer: os.Stdout}
	}
	if mod.Interceptor.Setup == nil {
		mod.Interceptor.Setup = mod.Binding.Load
	}
	return mod, nil
}

// Module is the state of an instance of the host module.
type Module struct {
	Interceptor *gltrace.Interceptor
	Binding     gltrace.Binding
}

type closer interface {
	Close(context.Context) error
}

func (m *Module) Close(ctx context.Context) error {
	if c, ok := m.Binding.(closer); ok {
		return c.Close(ctx)
	}
	return nil
}

// signature is the wasm view of an entry point.
type signature struct {
	name   string
	handle uintptr
	params []api.ValueType
	result []api.ValueType
}

func (m *Module) call(ctx context.Context, mod api.Module, sig *signature, stack []uint64) {
	var memory api.Memory
	if mod != nil {
		memory = mod.Memory()
	}
	call := gltrace.Call{
		Name:    sig.name,
		Func:    sig.handle,
		NumArgs: len(sig.params),
	}

	call.Args = newStackArgs(sig.params, stack, memory)
	switch m.Interceptor.Intercept(ctx, call) {
	case gltrace.Decoded, gltrace.Silent:
	default:
		return
	}

	call.Args = newStackArgs(sig.params, stack, memory)
	result, err := m.Binding.Invoke(ctx, call)
	if err != nil {
		panic(fmt.Errorf("%s: %w", sig.name, err))
	}
	if len(sig.result) > 0 {
		stack[0] = result
	}
}

func catalogFunctions() wazergo.Functions[*Module] {
	names := gltrace.Names()
	fns := make(wazergo.Functions[*Module], len(names))
	for i, name := range names {
		entry, _ := gltrace.Lookup(name)
		sig := &signature{name: name, handle: uintptr(i + 1)}
		sig.params, sig.result = Signature(entry)
		fns[name] = sig.function()
	}
	return fns
}

func unknownFunction(name string, params, results []api.ValueType) wazergo.Function[*Module] {
	sig := &signature{name: name, params: params, result: results}
	return sig.function()
}

func (sig *signature) function() wazergo.Function[*Module] {
	return wazergo.Function[*Module]{
		Params:  values(sig.params),
		Results: values(sig.result),
		Func: func(m *Module, ctx context.Context, mod api.Module, stack []uint64) {
			m.call(ctx, mod, sig, stack)
		},
	}
}

// Signature returns the wasm32 parameter and result types of entry.
func Signature(entry *gltrace.EntryPoint) (params, results []api.ValueType) {
	params = make([]api.ValueType, len(entry.Params))
	for i, p := range entry.Params {
		params[i] = valueType(p.Kind)
	}
	if entry.Result != gltrace.Void {
		results = []api.ValueType{valueType(entry.Result)}
	}
	return params, results
}

// valueType returns the wasm32 type an argument of kind k is passed as.
func valueType(k gltrace.Kind) api.ValueType {
	switch k {
	case gltrace.FloatKind:
		return api.ValueTypeF32
	case gltrace.DoubleKind:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}

func values(types []api.ValueType) []Value {
	if len(types) == 0 {
		return nil
	}
	values := make([]Value, len(types))
	for i, t := range types {
		switch t {
		case api.ValueTypeI32:
			values[i] = Int32(0)
		case api.ValueTypeI64:
			values[i] = Int64(0)
		case api.ValueTypeF32:
			values[i] = Float32(0)
		case api.ValueTypeF64:
			values[i] = Float64(0)
		default:
			panic(fmt.Sprintf("BUG: unsupported value type %s", api.ValueTypeName(t)))
		}
	}
	return values
}
