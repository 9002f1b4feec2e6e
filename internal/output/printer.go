// Package output formats CLI status lines and search results for the terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes status lines, coloured when enabled.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter returns a printer on the given streams. Colours are disabled
// when NO_COLOR is set or TERM is dumb.
func NewPrinter(out, err io.Writer) *Printer {
	_, noColor := os.LookupEnv("NO_COLOR")
	return &Printer{
		out:       out,
		err:       err,
		useColors: !noColor && os.Getenv("TERM") != "dumb",
	}
}

// WithColors forces colours on or off.
func (p *Printer) WithColors(on bool) *Printer {
	p.useColors = on
	return p
}

// Info prints an informational message to the output stream.
func (p *Printer) Info(format string, args ...interface{}) {
	p.print(p.out, color.FgCyan, "", format, args...)
}

// Warning prints a warning to the error stream.
func (p *Printer) Warning(format string, args ...interface{}) {
	p.print(p.err, color.FgYellow, "[WARN] ", format, args...)
}

// Error prints an error to the error stream.
func (p *Printer) Error(format string, args ...interface{}) {
	p.print(p.err, color.FgRed, "[ERROR] ", format, args...)
}

func (p *Printer) print(w io.Writer, attr color.Attribute, prefix, format string, args ...interface{}) {
	if p.useColors {
		c := color.New(attr)
		c.EnableColor()
		c.Fprintf(w, prefix+format+"\n", args...)
		return
	}
	fmt.Fprintf(w, prefix+format+"\n", args...)
}
