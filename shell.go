package bshell

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Shell drives the read-dispatch loop for one session.
type Shell struct {
	State      *ShellState
	Session    *Session
	Dispatcher *Dispatcher
	Reader     LineReader
	History    *History
	Prompt     string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewShell assembles a shell over state. History and line editing are
// best-effort: when either cannot be set up the shell runs without it.
func NewShell(cfg *Config, state *ShellState) *Shell {
	sh := &Shell{
		State:   state,
		Session: NewSession(),
		Prompt:  cfg.Prompt,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	if cfg.History != "" {
		h, err := NewHistory(cfg.History)
		if err != nil {
			log.Warn().Err(err).Str("history", cfg.History).Msg("history disabled")
		} else if err := h.StartSession(sh.Session); err != nil {
			log.Warn().Err(err).Str("history", cfg.History).Msg("history disabled")
			h.Close()
		} else {
			sh.History = h
		}
	}

	builtins := DefaultBuiltins()
	sh.Dispatcher = NewDispatcher(state, builtins, sh.History)

	if state.Interactive {
		reader, err := NewReadlineReader(NewCompleter(builtins))
		if err != nil {
			log.Warn().Err(err).Msg("line editing disabled")
		} else {
			sh.Reader = reader
		}
	}
	if sh.Reader == nil {
		sh.Reader = NewStreamReader(sh.Stdin, sh.Stdout)
	}

	log.Info().Str("session_id", sh.Session.SessionID).Str("user", sh.Session.UserName).Bool("interactive", state.Interactive).Msg("session started")
	return sh
}

// Run reads and dispatches lines until a builtin returns Stop or the input
// ends.
func (sh *Shell) Run() {
	for {
		line, err := sh.Reader.ReadLine(expandPrompt(sh.Prompt))
		if err != nil {
			if err != io.EOF {
				reportError(sh.Stderr, "read: %v", err)
				log.Error().Err(err).Msg("read line")
			}
			return
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if sh.Execute(line) == Stop {
			return
		}
	}
}

// Execute tokenizes and dispatches a single line.
func (sh *Shell) Execute(line string) Signal {
	cmd, err := NewCommand(line)
	if err != nil {
		reportError(sh.Stderr, "%v", err)
		return Continue
	}
	cmd.Stdin = sh.Stdin
	cmd.Stdout = sh.Stdout
	cmd.Stderr = sh.Stderr

	sig := sh.Dispatcher.Dispatch(cmd)

	if sh.History != nil {
		if err := sh.History.Record(sh.Session.SessionID, cmd); err != nil {
			log.Warn().Err(err).Str("command", cmd.Args.Name()).Msg("record history")
		}
	}
	return sig
}

// Close ends the session and releases the reader and history store.
func (sh *Shell) Close() error {
	sh.Session.End()
	if sh.History != nil {
		if err := sh.History.EndSession(sh.Session); err != nil {
			log.Warn().Err(err).Msg("end session")
		}
		sh.History.Close()
	}
	log.Info().Str("session_id", sh.Session.SessionID).Dur("duration", sh.Session.EndTime.Sub(sh.Session.StartTime)).Msg("session ended")
	return sh.Reader.Close()
}
