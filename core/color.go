package core

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/josephlewis42/myshell/core/config"
)

var (
	// ColorBoldRed is used for the "Error:" prefix.
	ColorBoldRed = []color.Attribute{color.FgRed, color.Bold}
)

// ColorPrinter decides whether output written to a stream gets colored.
type ColorPrinter struct {
	mode       string
	isTerminal bool
}

// NewColorPrinter creates a printer for out using one of the config.Color*
// modes.
func NewColorPrinter(mode string, out io.Writer) *ColorPrinter {
	return &ColorPrinter{
		mode:       mode,
		isTerminal: isTerminal(out),
	}
}

// ShouldColor reports whether output gets escape codes. Auto mode colors
// terminals only.
func (c *ColorPrinter) ShouldColor() bool {
	switch c.mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		return c.isTerminal
	}
}

// Sprintf formats like fmt.Sprintf, wrapping the result in attrs when
// coloring is on.
func (c *ColorPrinter) Sprintf(attrs []color.Attribute, format string, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprintf(format, a...)
	}

	col := color.New(attrs...)
	col.EnableColor()
	return col.Sprintf(format, a...)
}

// Errorln writes a one line error message in the interpreter's format.
func (c *ColorPrinter) Errorln(w io.Writer, msg interface{}) {
	fmt.Fprintf(w, "%s %v\n", c.Sprintf(ColorBoldRed, "Error:"), msg)
}
