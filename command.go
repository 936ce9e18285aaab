package bshell

import (
	"io"
	"os"
	"time"

	"bshell/parser"
)

// Signal tells the read-dispatch loop whether to keep going.
type Signal int

const (
	Continue Signal = iota
	Stop
)

func (s Signal) String() string {
	if s == Stop {
		return "stop"
	}
	return "continue"
}

// Command is one dispatched line and what became of it.
type Command struct {
	Args       parser.Args
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	CWD        string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	ReturnCode int
}

// NewCommand tokenizes input into a command bound to the process's
// standard streams.
func NewCommand(input string) (*Command, error) {
	args, err := parser.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return &Command{
		Args:   args,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// Dispatcher runs a command either as a builtin or as an external program.
type Dispatcher struct {
	builtins BuiltinTable
	launcher *Launcher
	history  *History
}

// NewDispatcher builds a dispatcher over the given builtins. history may be
// nil when command history is disabled.
func NewDispatcher(state *ShellState, builtins BuiltinTable, history *History) *Dispatcher {
	return &Dispatcher{
		builtins: builtins,
		launcher: NewLauncher(state),
		history:  history,
	}
}

// Builtins returns the dispatcher's builtin table.
func (d *Dispatcher) Builtins() BuiltinTable {
	return d.builtins
}

// Dispatch runs cmd and returns the loop signal it produced. Only builtins
// can stop the loop; external programs always continue, whatever their
// exit status.
func (d *Dispatcher) Dispatch(cmd *Command) Signal {
	cmd.StartTime = time.Now()
	cmd.CWD, _ = os.Getwd()
	defer func() {
		cmd.EndTime = time.Now()
		cmd.Duration = cmd.EndTime.Sub(cmd.StartTime)
	}()

	if len(cmd.Args) == 0 {
		reportError(cmd.Stderr, "%v: empty argument vector", ErrInvalidCommand)
		cmd.ReturnCode = 1
		return Continue
	}

	if builtin, ok := d.builtins.Lookup(cmd.Args[0]); ok {
		sig, err := builtin.Run(d, cmd)
		if err != nil {
			reportError(cmd.Stderr, "%s: %v", builtin.Name, err)
			cmd.ReturnCode = 1
			return Continue
		}
		cmd.ReturnCode = 0
		return sig
	}

	return d.launcher.Launch(cmd)
}
