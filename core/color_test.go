package core

import (
	"bytes"
	"testing"

	"github.com/josephlewis42/myshell/core/config"
	"github.com/stretchr/testify/assert"
)

func TestColorPrinter_ShouldColor(t *testing.T) {
	cases := map[string]struct {
		mode   string
		expect bool
	}{
		"never":  {mode: config.ColorNever, expect: false},
		"always": {mode: config.ColorAlways, expect: true},
		// A buffer is never a terminal.
		"auto": {mode: config.ColorAuto, expect: false},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			c := NewColorPrinter(tc.mode, &bytes.Buffer{})
			assert.Equal(t, tc.expect, c.ShouldColor())
		})
	}
}

func TestColorPrinter_Errorln(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		buf := &bytes.Buffer{}
		NewColorPrinter(config.ColorNever, buf).Errorln(buf, "fork() error")
		assert.Equal(t, "Error: fork() error\n", buf.String())
	})

	t.Run("colored", func(t *testing.T) {
		buf := &bytes.Buffer{}
		NewColorPrinter(config.ColorAlways, buf).Errorln(buf, "fork() error")
		assert.Contains(t, buf.String(), "\x1b[")
		assert.Contains(t, buf.String(), "Error:")
		assert.Contains(t, buf.String(), " fork() error\n")
	})
}
