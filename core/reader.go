package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/abiosoft/readline"
	"golang.org/x/term"
)

// LineReader reads one line of input per prompt.
type LineReader interface {
	// ReadLine shows prompt and returns the next line without its newline.
	// It returns io.EOF once input is exhausted.
	ReadLine(prompt string) (string, error)
	// AddHistory makes line available for recall, if the reader supports it.
	AddHistory(line string) error
	Close() error
}

// bufferedLineReader reads lines from a non-interactive source. It keeps at
// most limit bytes (plus room to finish a rune) of each line in memory and
// discards the rest.
type bufferedLineReader struct {
	in    *bufio.Reader
	out   io.Writer
	limit int
}

var _ LineReader = (*bufferedLineReader)(nil)

// NewBufferedLineReader reads lines from in, writing prompts to out.
func NewBufferedLineReader(in io.Reader, out io.Writer, limit int) LineReader {
	return &bufferedLineReader{
		in:    bufio.NewReader(in),
		out:   out,
		limit: limit,
	}
}

func (b *bufferedLineReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(b.out, prompt)

	keep := b.limit + utf8.UTFMax
	var line []byte
	sawData := false
	for {
		chunk, err := b.in.ReadSlice('\n')
		sawData = sawData || len(chunk) > 0
		chunk = bytes.TrimSuffix(chunk, []byte{'\n'})

		if room := keep - len(line); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			line = append(line, chunk...)
		}

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && sawData:
			// Final line without a newline.
			return string(line), nil
		case err != nil:
			return "", err
		default:
			return string(line), nil
		}
	}
}

func (b *bufferedLineReader) AddHistory(string) error {
	return nil
}

func (b *bufferedLineReader) Close() error {
	return nil
}

// readlineReader provides line editing for terminals.
type readlineReader struct {
	instance *readline.Instance
}

var _ LineReader = (*readlineReader)(nil)

func newReadlineReader(in *os.File, out, errOut io.Writer, historyLimit int) (*readlineReader, error) {
	cfg := &readline.Config{
		Stdin:        readline.NewCancelableStdin(in),
		Stdout:       out,
		Stderr:       errOut,
		HistoryLimit: historyLimit,
		FuncIsTerminal: func() bool {
			return true
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &readlineReader{instance: instance}, nil
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineReader) AddHistory(line string) error {
	return r.instance.SaveHistory(line)
}

func (r *readlineReader) Close() error {
	return r.instance.Close()
}

// isTerminal reports whether v is a file connected to a terminal.
func isTerminal(v interface{}) bool {
	fd, ok := v.(*os.File)
	return ok && term.IsTerminal(int(fd.Fd()))
}

// newLineReader picks line editing for terminals and plain buffered reads
// for everything else.
func newLineReader(in io.Reader, out, errOut io.Writer, maxLineLength, historyLimit int) (LineReader, error) {
	if isTerminal(in) {
		return newReadlineReader(in.(*os.File), out, errOut, historyLimit)
	}
	if in == nil {
		in = bytes.NewReader(nil)
	}
	return NewBufferedLineReader(in, out, maxLineLength), nil
}

// truncateLine cuts line to at most limit bytes without splitting a valid
// multi-byte rune. Bytes that aren't UTF-8 are cut like any other byte.
func truncateLine(line string, limit int) string {
	if len(line) <= limit {
		return line
	}

	cut := limit
	for i := limit - 1; i >= 0 && i > limit-utf8.UTFMax; i-- {
		if !utf8.RuneStart(line[i]) {
			continue
		}
		if _, size := utf8.DecodeRuneInString(line[i:]); size > limit-i {
			cut = i
		}
		break
	}
	return line[:cut]
}
