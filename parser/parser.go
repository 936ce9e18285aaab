package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// MaxArgs bounds the number of tokens a single line may produce.
const MaxArgs = 4096

// ErrTooManyArgs is returned when a line holds more than MaxArgs tokens.
var ErrTooManyArgs = errors.New("too many arguments")

// Only the space character separates words. Tabs and every other
// character, quotes included, are part of a word.
var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[^ ]+`},
	{Name: "Space", Pattern: ` +`},
})

var wordType = lineLexer.Symbols()["Word"]

// Args is an argument vector. The first element is the command name.
type Args []string

// Name returns the command name, or "" for an empty vector.
func (a Args) Name() string {
	if len(a) == 0 {
		return ""
	}
	return a[0]
}

// Tokenize splits a line, with its line terminator already removed, into
// an argument vector. Runs of spaces are a single separator and leading or
// trailing spaces produce no tokens, so a line of only spaces yields an
// empty vector.
func Tokenize(line string) (Args, error) {
	lex, err := lineLexer.LexString("", line)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	var args Args
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, fmt.Errorf("tokenize: %w", err)
		}
		if tok.EOF() {
			break
		}
		if tok.Type != wordType {
			continue
		}
		if len(args) == MaxArgs {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyArgs, MaxArgs)
		}
		args = append(args, tok.Value)
	}
	return args, nil
}

// Format joins an argument vector back into a single-spaced line.
func Format(args Args) string {
	return strings.Join(args, " ")
}
