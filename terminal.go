package bshell

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is the controlling terminal the shell hands to its children.
type Terminal interface {
	Fd() int
	IsTerminal() bool
	// ForegroundGroup returns the terminal's foreground process group.
	ForegroundGroup() (int, error)
	SetForegroundGroup(pgid int) error
	GetState() (*term.State, error)
	Restore(state *term.State) error
}

// ProcessControl is the subset of process-group calls the shell makes on
// itself.
type ProcessControl interface {
	Getpid() int
	Getpgrp() int
	Setpgid(pid, pgid int) error
}

type fileTerminal struct {
	f *os.File
}

// StdinTerminal returns the terminal attached to standard input.
func StdinTerminal() Terminal {
	return &fileTerminal{f: os.Stdin}
}

func (t *fileTerminal) Fd() int {
	return int(t.f.Fd())
}

func (t *fileTerminal) IsTerminal() bool {
	return term.IsTerminal(t.Fd())
}

func (t *fileTerminal) ForegroundGroup() (int, error) {
	return unix.IoctlGetInt(t.Fd(), unix.TIOCGPGRP)
}

func (t *fileTerminal) SetForegroundGroup(pgid int) error {
	return unix.IoctlSetPointerInt(t.Fd(), unix.TIOCSPGRP, pgid)
}

func (t *fileTerminal) GetState() (*term.State, error) {
	return term.GetState(t.Fd())
}

func (t *fileTerminal) Restore(state *term.State) error {
	return term.Restore(t.Fd(), state)
}

type osProcessControl struct{}

// OSProcessControl returns the ProcessControl backed by the running process.
func OSProcessControl() ProcessControl {
	return osProcessControl{}
}

func (osProcessControl) Getpid() int {
	return unix.Getpid()
}

func (osProcessControl) Getpgrp() int {
	return unix.Getpgrp()
}

func (osProcessControl) Setpgid(pid, pgid int) error {
	return unix.Setpgid(pid, pgid)
}
