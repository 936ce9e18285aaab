package bshell

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/phuslu/log"
	"golang.org/x/term"
)

// Signals an interactive shell must survive. They are caught rather than
// ignored: caught handlers fall back to the default disposition in a forked
// child, ignored ones would be inherited across exec.
var jobControlSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGTSTP,
	syscall.SIGTTIN,
	syscall.SIGTTOU,
	syscall.SIGCHLD,
}

// ShellState is the terminal and process-group state established once at
// startup. It is read-only afterwards.
type ShellState struct {
	Terminal    Terminal
	PGID        int
	Interactive bool
	// Modes is the terminal attribute snapshot taken at startup.
	Modes *term.State

	signals *jobSignals
}

// InitShell takes ownership of the terminal attached to t and moves the
// shell into its own process group. When t is not a terminal the shell
// runs without job control and no terminal calls are made.
func InitShell(t Terminal, pc ProcessControl) (*ShellState, error) {
	state := &ShellState{
		Terminal: t,
		PGID:     pc.Getpgrp(),
	}
	if !t.IsTerminal() {
		log.Info().Int("pgid", state.PGID).Msg("stdin is not a terminal, job control disabled")
		return state, nil
	}
	state.Interactive = true

	// Come to the foreground first so the calls below are not made from a
	// background group.
	if fg, err := t.ForegroundGroup(); err != nil || fg != state.PGID {
		err = withoutTTOU(nil, func() error { return t.SetForegroundGroup(state.PGID) })
		if err != nil {
			log.Warn().Err(err).Int("pgid", state.PGID).Int("foreground", fg).Msg("cannot move shell to the foreground")
			state.Interactive = false
			return state, nil
		}
	}

	state.signals = captureJobSignals()

	pid := pc.Getpid()
	if state.PGID != pid {
		if err := pc.Setpgid(pid, pid); err != nil {
			state.Close()
			return nil, fmt.Errorf("%w: %v", ErrProcessGroupSetup, err)
		}
		state.PGID = pid
	}

	if err := state.TakeTerminal(); err != nil {
		log.Warn().Err(err).Int("pgid", state.PGID).Msg("cannot grab control of the terminal")
	}

	modes, err := t.GetState()
	if err != nil {
		log.Warn().Err(err).Msg("cannot save terminal attributes")
	}
	state.Modes = modes

	log.Info().Int("pid", pid).Int("pgid", state.PGID).Int("tty", t.Fd()).Msg("shell initialized")
	return state, nil
}

// TakeTerminal makes the shell's process group the terminal's foreground
// group. It is a no-op for a non-interactive shell.
func (s *ShellState) TakeTerminal() error {
	if !s.Interactive {
		return nil
	}
	return withoutTTOU(s.signals, func() error {
		return s.Terminal.SetForegroundGroup(s.PGID)
	})
}

// RestoreModes puts back the terminal attributes saved at startup.
func (s *ShellState) RestoreModes() error {
	if !s.Interactive || s.Modes == nil {
		return nil
	}
	return s.Terminal.Restore(s.Modes)
}

// Close stops capturing job-control signals.
func (s *ShellState) Close() {
	if s.signals != nil {
		s.signals.stop()
		s.signals = nil
	}
}

type jobSignals struct {
	ch   chan os.Signal
	once sync.Once
}

func captureJobSignals() *jobSignals {
	js := &jobSignals{ch: make(chan os.Signal, 8)}
	signal.Notify(js.ch, jobControlSignals...)
	go func() {
		for sig := range js.ch {
			log.Debug().Str("signal", sig.String()).Msg("signal discarded by shell")
		}
	}()
	return js
}

func (js *jobSignals) stop() {
	js.once.Do(func() {
		signal.Stop(js.ch)
		close(js.ch)
	})
}

// withoutTTOU runs fn with SIGTTOU ignored. A process outside the
// foreground group that catches SIGTTOU would be signalled again on every
// restart of tcsetpgrp.
func withoutTTOU(js *jobSignals, fn func() error) error {
	signal.Ignore(syscall.SIGTTOU)
	defer func() {
		if js != nil {
			signal.Notify(js.ch, syscall.SIGTTOU)
		} else {
			signal.Reset(syscall.SIGTTOU)
		}
	}()
	return fn()
}
