package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is colored human-readable output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates s as an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", NewConfigError("output", fmt.Sprintf("unknown format %q (want text or json)", s))
}

// Printer writes command output to w, coloring status lines when w is a
// terminal.
type Printer struct {
	w      io.Writer
	format OutputFormat

	success *color.Color
	failure *color.Color
	warning *color.Color
	label   *color.Color
	reply   *color.Color
}

// NewPrinter creates a Printer. A nil w writes to os.Stdout.
func NewPrinter(w io.Writer, format OutputFormat) *Printer {
	if w == nil {
		w = os.Stdout
	}
	p := &Printer{
		w:       w,
		format:  format,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		label:   color.New(color.FgCyan, color.Bold),
		reply:   color.New(color.FgWhite),
	}
	if f, ok := w.(*os.File); !ok || f != os.Stdout {
		for _, c := range []*color.Color{p.success, p.failure, p.warning, p.label, p.reply} {
			c.DisableColor()
		}
	}
	return p
}

// JSON reports whether the printer emits JSON.
func (p *Printer) JSON() bool {
	return p.format == FormatJSON
}

// Success prints a green check line.
func (p *Printer) Success(format string, args ...any) {
	p.success.Fprintf(p.w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Failure prints a red cross line.
func (p *Printer) Failure(format string, args ...any) {
	p.failure.Fprintf(p.w, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a yellow warning line.
func (p *Printer) Warning(format string, args ...any) {
	p.warning.Fprintf(p.w, "! %s\n", fmt.Sprintf(format, args...))
}

// Field prints "label: value" with the label highlighted.
func (p *Printer) Field(label string, value any) {
	fmt.Fprintf(p.w, "%s %v\n", p.label.Sprint(label+":"), value)
}

// Label prints a highlighted prefix with no newline.
func (p *Printer) Label(text string) {
	p.label.Fprint(p.w, text)
}

// Reply prints part of an assistant reply with no newline.
func (p *Printer) Reply(text string) {
	p.reply.Fprint(p.w, text)
}

// Newline ends the current line.
func (p *Printer) Newline() {
	fmt.Fprintln(p.w)
}

// Encode writes v as indented JSON.
func (p *Printer) Encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
