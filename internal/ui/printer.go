package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Printer writes styled components to a writer. With Plain set, result
// boxes and headers collapse to single unstyled lines for scripts.
type Printer struct {
	out   io.Writer
	width int
	Plain bool
}

// NewPrinter creates a printer for w (os.Stdout when nil)
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// Width returns the render width
func (p *Printer) Width() int {
	return p.width
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Println writes content followed by a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline writes an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	if p.Plain {
		return
	}
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	if p.Plain {
		p.plainLine("ok", title, details)
		return
	}
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	if p.Plain {
		p.plainLine("warning", title, details)
		return
	}
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	if p.Plain {
		_, _ = fmt.Fprintf(p.out, "error: %s: %v\n", title, err)
		return
	}
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintProbes prints a discovery report
func (p *Printer) PrintProbes(report *ProbeReport) {
	if p.Plain {
		for _, s := range report.Steps() {
			_, _ = fmt.Fprintf(p.out, "%s\t%s\n", s.Candidate, s.Status)
		}
		return
	}
	report.Width = p.width
	p.Println(report.Render())
	p.Newline()
}

// PrintJSON writes v as indented JSON
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) plainLine(kind, title string, details []Param) {
	line := kind + ": " + title
	for _, d := range details {
		line += fmt.Sprintf(" %s=%s", d.Key, d.Value)
	}
	p.Println(line)
}
