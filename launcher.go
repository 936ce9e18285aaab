package bshell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/phuslu/log"
)

// Exit statuses recorded for commands that never ran.
const (
	StatusNotExecutable = 126
	StatusNotFound      = 127
)

// Launcher runs external programs in the foreground.
type Launcher struct {
	state *ShellState
}

func NewLauncher(state *ShellState) *Launcher {
	return &Launcher{state: state}
}

// Launch starts the program named by cmd.Args[0], resolved through PATH,
// and waits for that child alone to terminate. The child gets its own
// process group and, in an interactive shell, the terminal. The result is
// always Continue.
func (l *Launcher) Launch(cmd *Command) Signal {
	execCmd := exec.Command(cmd.Args[0], cmd.Args[1:]...)
	execCmd.Stdin = cmd.Stdin
	execCmd.Stdout = cmd.Stdout
	execCmd.Stderr = cmd.Stderr
	execCmd.SysProcAttr = l.procAttr()

	if err := execCmd.Start(); err != nil {
		// The child may have taken the terminal before its exec failed.
		l.reclaimTerminal()
		err = classifyStartError(err)
		reportError(cmd.Stderr, "%s: %v", cmd.Args[0], err)
		cmd.ReturnCode = startErrorStatus(err)
		log.Debug().Err(err).Strs("args", cmd.Args).Int("status", cmd.ReturnCode).Msg("launch failed")
		return Continue
	}

	pid := execCmd.Process.Pid
	log.Debug().Strs("args", cmd.Args).Int("pid", pid).Msg("child started")

	err := execCmd.Wait()
	l.reclaimTerminal()

	cmd.ReturnCode = exitStatus(execCmd.ProcessState)
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		log.Warn().Err(err).Int("pid", pid).Msg("wait for child")
	}
	log.Debug().Int("pid", pid).Int("status", cmd.ReturnCode).Msg("child reaped")
	return Continue
}

func (l *Launcher) procAttr() *syscall.SysProcAttr {
	// Pgid 0 roots the new group at the child's own pid.
	attr := &syscall.SysProcAttr{Setpgid: true, Pgid: 0}
	if l.state != nil && l.state.Interactive {
		attr.Foreground = true
		attr.Ctty = l.state.Terminal.Fd()
	}
	return attr
}

// reclaimTerminal hands the terminal back to the shell and undoes any mode
// changes the child left behind.
func (l *Launcher) reclaimTerminal() {
	if l.state == nil || !l.state.Interactive {
		return
	}
	if err := l.state.TakeTerminal(); err != nil {
		log.Warn().Err(err).Int("pgid", l.state.PGID).Msg("cannot take back the terminal")
	}
	if err := l.state.RestoreModes(); err != nil {
		log.Warn().Err(err).Msg("cannot restore terminal attributes")
	}
}

func classifyStartError(err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrExecutableNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrExecPermission
	default:
		return fmt.Errorf("%w: %v", ErrProcessCreation, err)
	}
}

func startErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrExecutableNotFound):
		return StatusNotFound
	case errors.Is(err, ErrExecPermission):
		return StatusNotExecutable
	default:
		return 1
	}
}

func exitStatus(ps *os.ProcessState) int {
	if ps == nil {
		return 1
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ps.ExitCode()
}
