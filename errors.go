package bshell

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// ErrProcessGroupSetup is the one unrecoverable error: the shell could
	// not be placed in its own process group.
	ErrProcessGroupSetup = errors.New("couldn't put the shell in its own process group")

	ErrExecutableNotFound = errors.New("command not found")
	ErrExecPermission     = errors.New("permission denied")
	ErrProcessCreation    = errors.New("cannot create process")
	ErrChangeDirectory    = errors.New("cannot change directory")
	ErrInvalidCommand     = errors.New("invalid command")
	ErrHistoryDisabled    = errors.New("history is disabled")
)

var diagColor = color.New(color.FgRed, color.Bold)

// reportError writes a single diagnostic line to w. The prefix is colored
// when color output is enabled for the process.
func reportError(w io.Writer, format string, a ...interface{}) {
	diagColor.Fprint(w, "bshell: ")
	fmt.Fprintf(w, format+"\n", a...)
}
