package gl_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stealthrocket/gltrace"
	"github.com/stealthrocket/gltrace/imports/gl"
	"github.com/stealthrocket/gltrace/internal/wasmbuild"
	"github.com/stealthrocket/wazergo"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// recorder is a binding recording the calls forwarded to it.
type recorder struct {
	loads int
	calls []string
	lists [][2]int32
}

func (r *recorder) Load(context.Context) error {
	r.loads++
	return nil
}

func (r *recorder) Invoke(ctx context.Context, call gltrace.Call) (uint64, error) {
	r.calls = append(r.calls, call.Name)
	switch call.Name {
	case "glDeleteLists":
		r.lists = append(r.lists, [2]int32{int32(call.Args.Uint32()), call.Args.Int32()})
	case "glGenLists":
		return 42, nil
	}
	return 0, nil
}

type program struct {
	wasmbuild.Program
	funcs map[string]wasmbuild.Func
}

func newProgram() *program {
	return &program{funcs: make(map[string]wasmbuild.Func)}
}

// call appends a call to a catalog entry point, importing it on first use
// with the signature of the host module.
func (p *program) call(name string, args ...wasmbuild.Value) {
	fn, ok := p.funcs[name]
	if !ok {
		entry, _ := gltrace.Lookup(name)
		params, results := gl.Signature(entry)
		fn = p.Import(gl.ModuleName, name, params, results)
		p.funcs[name] = fn
	}
	p.Call(fn, args...)
}

type result struct {
	trace  string
	stderr string
	exits  []int
}

func run(t *testing.T, p *program, binding gltrace.Binding) result {
	t.Helper()
	var trace, stderr bytes.Buffer
	var res result
	interceptor := &gltrace.Interceptor{
		Writer: &trace,
		Stderr: &stderr,
		Exit:   func(code int) { res.exits = append(res.exits, code) },
	}
	if err := runWith(p, interceptor, binding); err != nil {
		t.Fatal("running guest:", err)
	}
	res.trace, res.stderr = trace.String(), stderr.String()
	return res
}

// runWith runs the program in a new runtime, with a host module instance
// configured with interceptor and binding.
func runWith(p *program, interceptor *gltrace.Interceptor, binding gltrace.Binding) error {
	ctx := context.Background()

	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, p.Bytes())
	if err != nil {
		return err
	}

	instance := wazergo.MustInstantiate(ctx, runtime,
		gl.Imports(compiled),
		gl.WithInterceptor(interceptor),
		gl.WithBinding(binding),
	)
	defer instance.Close(ctx)
	ctx = wazergo.WithModuleInstance(ctx, instance)

	module, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return err
	}
	return module.Close(ctx)
}

func TestTrace(t *testing.T) {
	p := newProgram()
	p.Float32s(1024, 0.25, 0.5, 0.75)
	p.call("glClearColor", wasmbuild.F32(1), wasmbuild.F32(0), wasmbuild.F32(0), wasmbuild.F32(1))
	p.call("glClear", wasmbuild.U32(uint32(gltrace.DepthBufferBit|gltrace.ColorBufferBit)))
	p.call("glEnable", wasmbuild.U32(0x0B71))
	p.call("glBegin", wasmbuild.U32(uint32(gltrace.Triangles)))
	p.call("glColor3fv", wasmbuild.Ptr(1024))
	p.call("glVertex3f", wasmbuild.F32(-1), wasmbuild.F32(0.5), wasmbuild.F32(0))
	p.call("glVertex3fv", wasmbuild.Ptr(1024))
	p.call("glEnd")
	p.call("glGenLists", wasmbuild.I32(1))
	p.call("glDeleteLists", wasmbuild.U32(5), wasmbuild.I32(2))
	p.call("glTranslated", wasmbuild.F64(1), wasmbuild.F64(2), wasmbuild.F64(3))
	p.call("glAlphaFunc", wasmbuild.U32(uint32(gltrace.GEqual)), wasmbuild.F32(0.125))

	binding := new(recorder)
	res := run(t, p, binding)

	const want = "glClearColor(1.000000f, 0.000000f, 0.000000f, 1.000000f);\n" +
		"glClear(0 | GL_COLOR_BUFFER_BIT | GL_DEPTH_BUFFER_BIT);\n" +
		"glBegin(GL_TRIANGLES);\n" +
		"glColor3fv(0.250000f, 0.500000f, 0.750000f);\n" +
		"glVertex3f(-1.000000f, 0.500000f, 0.000000f);\n" +
		"glVertex3fv(0.250000f, 0.500000f, 0.750000f);\n" +
		"glEnd();\n" +
		"glDeleteLists(5, 2);\n" +
		"glAlphaFunc(GL_GEQUAL, 0.125000f);\n"

	if res.trace != want {
		t.Errorf("wrong trace:\nwant:\n%s\ngot:\n%s", want, res.trace)
	}
	if len(res.exits) != 0 {
		t.Errorf("unexpected exit: %v (%s)", res.exits, res.stderr)
	}
	if binding.loads != 1 {
		t.Errorf("binding loaded %d times", binding.loads)
	}
	if len(binding.calls) != 12 {
		t.Errorf("wrong number of forwarded calls: want=12 got=%d (%v)", len(binding.calls), binding.calls)
	}
	if len(binding.lists) != 1 || binding.lists[0] != [2]int32{5, 2} {
		t.Errorf("wrong arguments forwarded to glDeleteLists: %v", binding.lists)
	}
}

func TestUnrecognizedImport(t *testing.T) {
	p := newProgram()
	foo := p.Import(gl.ModuleName, "glFooBar", []api.ValueType{api.ValueTypeI32, api.ValueTypeF32}, nil)
	p.call("glBegin", wasmbuild.U32(uint32(gltrace.Points)))
	p.Call(foo, wasmbuild.I32(1), wasmbuild.F32(2))
	p.call("glEnd")

	binding := new(recorder)
	res := run(t, p, binding)

	if len(res.exits) != 1 || res.exits[0] != gltrace.ExitCode {
		t.Fatalf("wrong exits: want=[%d] got=%v", gltrace.ExitCode, res.exits)
	}
	if want := "Unhandled OpenGL function: glFooBar (2 arguments)\n"; res.stderr != want {
		t.Errorf("wrong diagnostic:\nwant: %q\ngot:  %q", want, res.stderr)
	}
	for _, name := range binding.calls {
		if name == "glFooBar" {
			t.Error("unrecognized call was forwarded to the binding")
		}
	}
	if want := "glBegin(GL_POINTS);\nglEnd();\n"; res.trace != want {
		t.Errorf("wrong trace:\nwant: %q\ngot:  %q", want, res.trace)
	}
}

func TestHostModuleExportsCatalog(t *testing.T) {
	fns := gl.HostModule.Functions()
	for _, name := range gltrace.Names() {
		if _, ok := fns[name]; !ok {
			t.Errorf("%s is not exported", name)
		}
	}
	if len(fns) != len(gltrace.Names()) {
		t.Errorf("wrong number of functions: want=%d got=%d", len(gltrace.Names()), len(fns))
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name    string
		params  []api.ValueType
		results []api.ValueType
	}{
		{"glBegin", []api.ValueType{api.ValueTypeI32}, nil},
		{"glClearColor", []api.ValueType{api.ValueTypeF32, api.ValueTypeF32, api.ValueTypeF32, api.ValueTypeF32}, nil},
		{"glTranslated", []api.ValueType{api.ValueTypeF64, api.ValueTypeF64, api.ValueTypeF64}, nil},
		{"glGetString", []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}},
		{"glEnd", []api.ValueType{}, nil},
	}
	for _, test := range tests {
		entry, _ := gltrace.Lookup(test.name)
		params, results := gl.Signature(entry)
		if string(params) != string(test.params) || string(results) != string(test.results) {
			t.Errorf("%s: wrong signature: want=%v->%v got=%v->%v", test.name, test.params, test.results, params, results)
		}
	}
}

func TestSharedInterceptorLoadsBindingOnce(t *testing.T) {
	p := newProgram()
	p.call("glBegin", wasmbuild.U32(uint32(gltrace.Points)))
	p.call("glEnd")

	var trace bytes.Buffer
	binding := new(recorder)
	interceptor := &gltrace.Interceptor{Writer: &trace, Exit: exitUnexpectedly(t)}

	for i := 0; i < 2; i++ {
		if err := runWith(p, interceptor, binding); err != nil {
			t.Fatal(err)
		}
	}
	if binding.loads != 1 {
		t.Errorf("binding loaded %d times", binding.loads)
	}
	if len(binding.calls) != 4 {
		t.Errorf("wrong number of forwarded calls: want=4 got=%d", len(binding.calls))
	}
	if got, want := trace.String(), "glBegin(GL_POINTS);\nglEnd();\nglBegin(GL_POINTS);\nglEnd();\n"; got != want {
		t.Errorf("wrong trace:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestInterceptorSetup(t *testing.T) {
	p := newProgram()
	p.call("glEnd")

	t.Run("defaults to loading the binding", func(t *testing.T) {
		binding := new(recorder)
		interceptor := &gltrace.Interceptor{Writer: new(bytes.Buffer), Exit: exitUnexpectedly(t)}
		if err := runWith(p, interceptor, binding); err != nil {
			t.Fatal(err)
		}
		if interceptor.Setup == nil {
			t.Error("interceptor setup was not set")
		}
		if binding.loads != 1 {
			t.Errorf("binding loaded %d times", binding.loads)
		}
	})

	t.Run("keeps the interceptor setup", func(t *testing.T) {
		binding := new(recorder)
		setups := 0
		interceptor := &gltrace.Interceptor{
			Writer: new(bytes.Buffer),
			Setup:  func(context.Context) error { setups++; return nil },
			Exit:   exitUnexpectedly(t),
		}
		if err := runWith(p, interceptor, binding); err != nil {
			t.Fatal(err)
		}
		if setups != 1 {
			t.Errorf("setup ran %d times", setups)
		}
		if binding.loads != 0 {
			t.Errorf("binding loaded %d times", binding.loads)
		}
	})
}

func TestSignatureMismatchFailsToLink(t *testing.T) {
	p := newProgram()
	begin := p.Import(gl.ModuleName, "glBegin", []api.ValueType{api.ValueTypeF32}, nil)
	p.Call(begin, wasmbuild.F32(4))

	var trace bytes.Buffer
	binding := new(recorder)
	interceptor := &gltrace.Interceptor{Writer: &trace, Exit: exitUnexpectedly(t)}

	if err := runWith(p, interceptor, binding); err == nil {
		t.Fatal("guest importing glBegin(f32) was instantiated")
	}
	if trace.Len() != 0 {
		t.Errorf("unexpected trace: %q", trace.String())
	}
	if len(binding.calls) != 0 {
		t.Errorf("unexpected forwarded calls: %v", binding.calls)
	}
}

func exitUnexpectedly(t *testing.T) func(int) {
	return func(code int) { t.Errorf("unexpected exit with code %d", code) }
}
