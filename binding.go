package gltrace

import "context"

// Binding is the OpenGL implementation traced calls are forwarded to.
type Binding interface {
	// Load prepares the binding for use. It is called once, before the
	// first call is forwarded.
	Load(ctx context.Context) error

	// Invoke performs the call and returns its result, zero for entry
	// points returning void.
	Invoke(ctx context.Context, call Call) (uint64, error)
}

// NullBinding is a Binding that accepts every call and does nothing.
type NullBinding struct{}

func (NullBinding) Load(context.Context) error { return nil }

func (NullBinding) Invoke(context.Context, Call) (uint64, error) { return 0, nil }

var _ Binding = NullBinding{}
