package core

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r LineReader) []string {
	t.Helper()

	var lines []string
	for {
		line, err := r.ReadLine("> ")
		if err == io.EOF {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestBufferedLineReader(t *testing.T) {
	cases := map[string]struct {
		in     string
		max    int
		expect []string
	}{
		"empty input": {
			in:     "",
			max:    99,
			expect: nil,
		},
		"lines": {
			in:     "ls -l\n\ndir\n",
			max:    99,
			expect: []string{"ls -l", "", "dir"},
		},
		"unterminated final line": {
			in:     "ls\nbye",
			max:    99,
			expect: []string{"ls", "bye"},
		},
		"long line kept up to limit": {
			in:     strings.Repeat("x", 200) + "\nls\n",
			max:    10,
			expect: []string{strings.Repeat("x", 14), "ls"},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out := &bytes.Buffer{}
			r := NewBufferedLineReader(strings.NewReader(tc.in), out, tc.max)
			defer r.Close()

			assert.Equal(t, tc.expect, readAll(t, r))
			assert.Equal(t, strings.Repeat("> ", len(tc.expect)+1), out.String())
		})
	}
}

func TestBufferedLineReader_LongerThanBuffer(t *testing.T) {
	// Longer than bufio's default buffer.
	line := strings.Repeat("y", 10000)
	r := NewBufferedLineReader(strings.NewReader(line+"\nls\n"), io.Discard, 99)

	assert.Equal(t, []string{line[:99+4], "ls"}, readAll(t, r))
}

func TestNewLineReader_NotTerminal(t *testing.T) {
	r, err := newLineReader(nil, io.Discard, io.Discard, 99, 10)
	require.NoError(t, err)
	assert.IsType(t, &bufferedLineReader{}, r)

	_, err = r.ReadLine("")
	assert.Equal(t, io.EOF, err)
}

func TestTruncateLine(t *testing.T) {
	cases := map[string]struct {
		line   string
		max    int
		expect string
	}{
		"short":                    {line: "ls", max: 99, expect: "ls"},
		"exact":                    {line: "abc", max: 3, expect: "abc"},
		"cut":                      {line: "abcdef", max: 3, expect: "abc"},
		"rune kept":                {line: "abé", max: 4, expect: "abé"},
		"rune split":               {line: "abé", max: 3, expect: "ab"},
		"zero length":              {line: "abc", max: 0, expect: ""},
		"latin-1 kept":             {line: "caf\xe9.txt", max: 4, expect: "caf\xe9"},
		"stray continuation bytes": {line: "ab\x80\x80c", max: 3, expect: "ab\x80"},
		"invalid lead byte":        {line: "a\xe9\xe9\xe9", max: 2, expect: "a\xe9"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expect, truncateLine(tc.line, tc.max))
		})
	}
}
