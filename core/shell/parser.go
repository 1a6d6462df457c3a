// Package shell turns raw input lines into commands the interpreter can run.
//
// A line is broken into words on runs of spaces, tabs and newlines. There is
// no quoting, escaping, expansion or redirection: every other character is
// part of a word. The first word decides whether the line names a builtin,
// and a trailing "&" word detaches the command from the prompt.
package shell

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/anmitsu/go-shlex"
)

// MaxArgs is the most words a single command keeps. Words past the limit are
// dropped without error.
const MaxArgs = 10

// BackgroundMarker is the trailing word that runs a command in the background.
const BackgroundMarker = "&"

// ErrEmptyInput is returned when there is no line to parse at all.
var ErrEmptyInput = errors.New("command line is empty")

// Command is one parsed invocation.
type Command struct {
	// Args holds the argument vector, Args[0] is the program or builtin name.
	Args    []string
	Builtin Builtin
}

// Argc returns the number of arguments.
func (c *Command) Argc() int {
	return len(c.Args)
}

// Name returns the program or builtin name, or "" for an empty command.
func (c *Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// IsEmpty reports whether the command has no words and should be skipped.
func (c *Command) IsEmpty() bool {
	return len(c.Args) == 0
}

func (c *Command) String() string {
	return strings.Join(c.Args, " ")
}

// wordTokenizer splits only on the delimiter set, quotes and escapes are
// ordinary word characters.
type wordTokenizer struct{}

var _ shlex.Tokenizer = (*wordTokenizer)(nil)

func (wordTokenizer) IsWord(r rune) bool {
	return !isDelim(r)
}

func (wordTokenizer) IsWhitespace(r rune) bool {
	return isDelim(r)
}

func (wordTokenizer) IsQuote(rune) bool        { return false }
func (wordTokenizer) IsEscape(rune) bool       { return false }
func (wordTokenizer) IsEscapedQuote(rune) bool { return false }

func isDelim(r rune) bool {
	switch r {
	case ' ', '\t', '\n':
		return true
	default:
		return false
	}
}

// Parse reads a single line from r and returns the command it describes and
// whether it should run in the background.
//
// A nil reader is an error. A blank line is not: it returns a command with no
// arguments which callers should skip.
func Parse(r io.Reader) (*Command, bool, error) {
	if r == nil {
		return nil, false, ErrEmptyInput
	}

	line, err := io.ReadAll(r)
	if err != nil {
		return nil, false, err
	}

	words, err := splitWords(string(line))
	if err != nil {
		return nil, false, err
	}

	if len(words) > MaxArgs {
		words = words[:MaxArgs]
	}

	cmd := &Command{Args: words}
	if cmd.IsEmpty() {
		return cmd, false, nil
	}

	cmd.Builtin = ParseBuiltin(cmd.Args[0])

	background := cmd.Args[len(cmd.Args)-1] == BackgroundMarker
	if background {
		cmd.Args = cmd.Args[:len(cmd.Args)-1]
	}

	return cmd, background, nil
}

// splitWords breaks line into words. The lexer decodes runes, so lines that
// aren't valid UTF-8 are split on raw bytes to keep every byte intact.
func splitWords(line string) ([]string, error) {
	if !utf8.ValidString(line) {
		return strings.FieldsFunc(line, isDelim), nil
	}

	lexer := shlex.NewLexer(strings.NewReader(line), false, true)
	lexer.SetTokenizer(&wordTokenizer{})
	return lexer.Split()
}

// ParseString is Parse for an in-memory line.
func ParseString(line string) (*Command, bool, error) {
	return Parse(strings.NewReader(line))
}
