package errors

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[90m"
	colorBold   = "\033[1m"
)

// Formatter handles error display with optional color support.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool

	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer

	// Indent is the prefix for context and suggestion lines.
	Indent string
}

// DefaultFormatter returns a Formatter writing to stderr, colored when stderr
// is a terminal.
func DefaultFormatter() *Formatter {
	return &Formatter{
		UseColor: term.IsTerminal(int(os.Stderr.Fd())),
		Writer:   os.Stderr,
		Indent:   "  ",
	}
}

// Format renders an error. ReportErrors show code, message, context, cause
// and suggestions; other errors show a single line.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	re, ok := AsReportError(err)
	if !ok {
		if f.UseColor {
			return colorRed + "Error: " + colorReset + err.Error()
		}
		return "Error: " + err.Error()
	}

	var sb strings.Builder
	if f.UseColor {
		sb.WriteString(colorRed + colorBold + "ERROR" + colorReset + colorRed + " [" + re.Code + "]: " + colorReset)
	} else {
		sb.WriteString("ERROR [" + re.Code + "]: ")
	}
	sb.WriteString(re.Message)
	sb.WriteString("\n")

	keys := make([]string, 0, len(re.Context))
	for k := range re.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(f.Indent)
		f.paint(&sb, colorYellow, k+": ")
		sb.WriteString(re.Context[k])
		sb.WriteString("\n")
	}

	if re.Cause != nil {
		sb.WriteString(f.Indent)
		f.paint(&sb, colorDim, "cause: "+re.Cause.Error())
		sb.WriteString("\n")
	}

	for i, s := range re.Suggestions {
		if i == 0 && (re.HasContext() || re.Cause != nil) {
			sb.WriteString("\n")
		}
		sb.WriteString(f.Indent)
		f.paint(&sb, colorCyan, "→ "+s)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (f *Formatter) paint(sb *strings.Builder, color, text string) {
	if f.UseColor {
		sb.WriteString(color)
		sb.WriteString(text)
		sb.WriteString(colorReset)
		return
	}
	sb.WriteString(text)
}

// Display writes a formatted error to the formatter's writer.
func (f *Formatter) Display(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(f.Writer, f.Format(err))
}

// Display writes a formatted error to stderr with default settings.
func Display(err error) {
	DefaultFormatter().Display(err)
}

// Sprint returns a formatted error string without colors.
func Sprint(err error) string {
	f := &Formatter{Writer: io.Discard, Indent: "  "}
	return f.Format(err)
}
