package gltrace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Interceptor decodes intercepted OpenGL calls into a trace.
//
// The first call seen by the Interceptor runs Setup; later calls never do,
// even if Setup failed. Trace lines are written to Writer before the call is
// forwarded, so the trace reflects the order in which calls were issued.
type Interceptor struct {
	// Writer receives one line per decoded call.
	Writer io.Writer

	// Setup loads the underlying binding. It may be nil.
	Setup func(context.Context) error

	// Stderr receives the diagnostic written before exiting. Defaults to
	// os.Stderr.
	Stderr io.Writer

	// Exit terminates the process. Defaults to os.Exit.
	Exit func(code int)

	once     sync.Once
	setupErr error
}

// Decode runs the one-time setup if needed, then writes the trace line of
// call. Errors are either *SetupError or *UnrecognizedCallError, or the
// error returned by Writer.
func (i *Interceptor) Decode(ctx context.Context, call Call) (Outcome, error) {
	i.once.Do(func() {
		if i.Setup != nil {
			if err := i.Setup(ctx); err != nil {
				i.setupErr = &SetupError{Err: err}
			}
		}
	})
	if i.setupErr != nil {
		return SetupFailed, i.setupErr
	}
	return Decode(i.Writer, call)
}

// Intercept is Decode with the default failure policy: setup failures and
// unrecognized calls terminate the process. Errors writing the trace are
// ignored.
func (i *Interceptor) Intercept(ctx context.Context, call Call) Outcome {
	outcome, err := i.Decode(ctx, call)
	if err != nil && isFatal(err) {
		i.fatal(err)
	}
	return outcome
}

func isFatal(err error) bool {
	var setupErr *SetupError
	var callErr *UnrecognizedCallError
	return errors.As(err, &setupErr) || errors.As(err, &callErr)
}

type flusher interface {
	Flush() error
}

func (i *Interceptor) fatal(err error) {
	if f, ok := i.Writer.(flusher); ok {
		f.Flush()
	}
	stderr := i.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	fmt.Fprintf(stderr, "%s\n", err)
	exit := i.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(ExitCode)
}
