package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stealthrocket/gltrace"
	"github.com/stealthrocket/gltrace/imports/gl"
	"github.com/stealthrocket/gltrace/internal/stdio"
	"github.com/stealthrocket/wazergo"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

const Version = "devel"

var (
	envs    stringList
	dirs    stringList
	output  string
	version bool
	help    bool
	h       bool
)

// Replaced in tests.
var (
	makeBinding           = newBinding
	stderr      io.Writer = os.Stderr
	exit                  = os.Exit
)

func main() {
	flag.Var(&envs, "env", "Environment variables to pass to the WASM module.")
	flag.Var(&dirs, "dir", "Directories to mount.")
	flag.StringVar(&output, "output", "", "File to write the trace to.")
	flag.BoolVar(&version, "version", false, "Print the version and exit.")
	flag.BoolVar(&help, "help", false, "Print usage information.")
	flag.BoolVar(&h, "h", false, "Print usage information.")
	flag.Parse()

	if version {
		fmt.Println("gltrace", Version)
		os.Exit(0)
	} else if h || help {
		showUsage()
		os.Exit(0)
	}

	exitCode, err := run(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func showUsage() {
	fmt.Printf(`gltrace - Trace the OpenGL calls of a WebAssembly module

USAGE:
   gltrace [OPTIONS]... <MODULE> [--] [ARGS]...

ARGS:
   <MODULE>
      The path of the WebAssembly module to run

   [ARGS]...
      Arguments to pass to the module

OPTIONS:
   --dir <DIR>
      Grant access to the specified host directory

   --env <NAME=VAL>
      Pass an environment variable to the module

   --output <FILE>
      Write the trace to FILE instead of the standard output

   --version
      Print the version and exit

   -h, --help
      Show this usage information
`)
}

func run(args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: gltrace [OPTIONS]... <MODULE> [--] [ARGS]...")
	}

	wasmFile := args[0]
	wasmName := filepath.Base(wasmFile)
	wasmCode, err := os.ReadFile(wasmFile)
	if err != nil {
		return 0, fmt.Errorf("could not read WASM file '%s': %w", wasmFile, err)
	}

	args = args[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	stdout := stdio.NewFile(os.Stdout)
	defer stdout.Flush()

	// The guest shares the trace stream when both go to the standard output,
	// so its own output stays ordered with the calls it makes.
	trace := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		trace = stdio.NewFile(f)
		defer trace.Flush()
	}

	ctx := context.Background()
	runtime := wazero.NewRuntime(ctx)
	defer runtime.Close(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	compiled, err := runtime.CompileModule(ctx, wasmCode)
	if err != nil {
		return 0, err
	}

	interceptor := &gltrace.Interceptor{
		Writer: trace,
		Stderr: stderr,
		Exit: func(code int) {
			stdout.Flush()
			exit(code)
		},
	}

	module := wazergo.MustInstantiate(ctx, runtime,
		gl.Imports(compiled),
		gl.WithInterceptor(interceptor),
		gl.WithBinding(makeBinding()),
	)
	defer module.Close(ctx)
	ctx = wazergo.WithModuleInstance(ctx, module)

	config := wazero.NewModuleConfig().
		WithName(wasmName).
		WithArgs(append([]string{wasmName}, args...)...).
		WithStdin(os.Stdin).
		WithStdout(stdout).
		WithStderr(stderr).
		WithRandSource(rand.Reader).
		WithSysWalltime().
		WithSysNanotime()

	for _, env := range envs {
		name, value, _ := strings.Cut(env, "=")
		config = config.WithEnv(name, value)
	}

	if len(dirs) > 0 {
		fsConfig := wazero.NewFSConfig()
		for _, dir := range dirs {
			fsConfig = fsConfig.WithDirMount(dir, dir)
		}
		config = config.WithFSConfig(fsConfig)
	}

	instance, err := runtime.InstantiateModule(ctx, compiled, config)
	if err != nil {
		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.ExitCode()), nil
		}
		return 0, err
	}
	return 0, instance.Close(ctx)
}

type stringList []string

func (s stringList) String() string {
	return fmt.Sprintf("%v", []string(s))
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
