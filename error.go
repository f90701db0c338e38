package gltrace

import "fmt"

// ExitCode is the process status used when the tracer gives up. It is what
// exit(-1) leaves in the low byte of the wait status.
const ExitCode = 255

// UnrecognizedCallError is returned when an intercepted call is not in the
// catalog.
type UnrecognizedCallError struct {
	Name    string
	NumArgs int
}

func (e *UnrecognizedCallError) Error() string {
	return fmt.Sprintf("Unhandled OpenGL function: %s (%d arguments)", e.Name, e.NumArgs)
}

// SetupError is returned when the binding failed to load on first use.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	if e.Err == nil {
		return "Cannot initialize OpenGL interception"
	}
	return "Cannot initialize OpenGL interception: " + e.Err.Error()
}

func (e *SetupError) Unwrap() error { return e.Err }
