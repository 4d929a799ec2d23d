//go:build windows

package config

import (
	"os"

	"golang.org/x/term"
)

// EnableColorOutput checks if colorized output is possible. Legacy consoles
// are not worth the trouble, plain output is used there.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd())) && os.Getenv("WT_SESSION") != ""
}
