//go:build !gogl

package main

import "github.com/stealthrocket/gltrace"

func newBinding() gltrace.Binding { return gltrace.NullBinding{} }
