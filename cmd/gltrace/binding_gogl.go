//go:build gogl

package main

import (
	"github.com/stealthrocket/gltrace"
	"github.com/stealthrocket/gltrace/bindings/gogl"
)

func newBinding() gltrace.Binding { return new(gogl.Binding) }
