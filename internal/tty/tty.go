//go:build darwin || linux

// Package tty detects terminal devices.
package tty

import "golang.org/x/sys/unix"

// IsTerminal is true if the file descriptor fd refers to a terminal device.
func IsTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, getTermios)
	return err == nil
}
