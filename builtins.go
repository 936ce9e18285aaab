package bshell

import (
	"fmt"
	"os"
	"strings"
)

// BuiltinFunc is the body of a builtin. It receives the full argument
// vector through cmd, including the builtin's own name.
type BuiltinFunc func(d *Dispatcher, cmd *Command) (Signal, error)

type Builtin struct {
	Name    string
	Usage   string
	Summary string
	Run     BuiltinFunc
}

// BuiltinTable is an ordered list of builtins. Lookups scan in order and
// the first entry with a matching name wins.
type BuiltinTable []Builtin

// DefaultBuiltins returns the shell's builtins in registration order.
func DefaultBuiltins() BuiltinTable {
	return BuiltinTable{
		{Name: "cd", Usage: "cd <path>", Summary: "change the working directory", Run: cd},
		{Name: "echo", Usage: "echo [args...]", Summary: "print arguments separated by spaces", Run: echo},
		{Name: "exit", Usage: "exit", Summary: "leave the shell", Run: exitShell},
		{Name: "help", Usage: "help", Summary: "show this message", Run: help},
		{Name: "logout", Usage: "logout", Summary: "leave the shell", Run: exitShell},
		{Name: "pwd", Usage: "pwd", Summary: "print the working directory", Run: pwd},
		{Name: "history", Usage: "history", Summary: "list recorded commands", Run: history},
	}
}

func (t BuiltinTable) Lookup(name string) (Builtin, bool) {
	for _, b := range t {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}

// Names returns the builtin names in registration order.
func (t BuiltinTable) Names() []string {
	names := make([]string, len(t))
	for i, b := range t {
		names[i] = b.Name
	}
	return names
}

func cd(d *Dispatcher, cmd *Command) (Signal, error) {
	// A missing operand is handed to chdir as-is so the OS reports it.
	var target string
	if len(cmd.Args) > 1 {
		target = cmd.Args[1]
	}
	if err := os.Chdir(target); err != nil {
		return Continue, fmt.Errorf("%w: %v", ErrChangeDirectory, err)
	}
	return Continue, nil
}

func echo(d *Dispatcher, cmd *Command) (Signal, error) {
	_, err := fmt.Fprintln(cmd.Stdout, strings.Join(cmd.Args[1:], " "))
	return Continue, err
}

func exitShell(d *Dispatcher, cmd *Command) (Signal, error) {
	return Stop, nil
}

func help(d *Dispatcher, cmd *Command) (Signal, error) {
	var b strings.Builder
	b.WriteString("BSHELL - BABY SHELL\n")
	b.WriteString("===================\n")
	b.WriteString("BUILTINS:\n")
	for _, builtin := range d.builtins {
		fmt.Fprintf(&b, "  %-16s %s\n", builtin.Usage, builtin.Summary)
	}
	_, err := fmt.Fprint(cmd.Stdout, b.String())
	return Continue, err
}

func pwd(d *Dispatcher, cmd *Command) (Signal, error) {
	dir, err := os.Getwd()
	if err != nil {
		return Continue, err
	}
	_, err = fmt.Fprintln(cmd.Stdout, dir)
	return Continue, err
}

func history(d *Dispatcher, cmd *Command) (Signal, error) {
	if d.history == nil {
		return Continue, ErrHistoryDisabled
	}
	entries, err := d.history.Dump(0)
	if err != nil {
		return Continue, fmt.Errorf("error retrieving history: %w", err)
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(cmd.Stdout, "%5d  %s\n", entry.ID, entry.Line); err != nil {
			return Continue, err
		}
	}
	return Continue, nil
}
