//go:build !windows

package kvfile

const newline = "\n"
