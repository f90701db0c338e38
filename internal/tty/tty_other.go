//go:build !darwin && !linux

// Package tty detects terminal devices.
package tty

// IsTerminal is always false on platforms without termios.
func IsTerminal(fd int) bool {
	return false
}
