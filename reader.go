package bshell

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// LineReader reads one line of input per call. It returns io.EOF once the
// input is exhausted. Returned lines may still carry their terminator.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type streamReader struct {
	r   *bufio.Reader
	out io.Writer
}

// NewStreamReader reads lines from r, writing each prompt to out. out may be
// nil to suppress prompts.
func NewStreamReader(r io.Reader, out io.Writer) LineReader {
	return &streamReader{r: bufio.NewReader(r), out: out}
}

func (s *streamReader) ReadLine(prompt string) (string, error) {
	if s.out != nil {
		fmt.Fprint(s.out, prompt)
	}
	line, err := s.r.ReadString('\n')
	if err == io.EOF && line != "" {
		// Last line without a terminator.
		return line, nil
	}
	return line, err
}

func (s *streamReader) Close() error {
	return nil
}

type readlineReader struct {
	rl *readline.Instance
}

// NewReadlineReader reads lines from the terminal with line editing and
// completion.
func NewReadlineReader(completer readline.AutoCompleter) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryLimit:    1000,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}
	return &readlineReader{rl: rl}, nil
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		// Ctrl-C abandons the partial line.
		return "", nil
	}
	return line, err
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}
