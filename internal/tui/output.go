package tui

import (
	"io"
)

// Output is where syncgit reports progress to the operator.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error, with its suggested action when one is known.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Heading starts a named section.
	Heading(title string)
	// Block prints preformatted text, such as git output, verbatim.
	Block(text string)
	// Markdown renders a markdown document.
	Markdown(md string)
	// Table prints rows under headers.
	Table(headers []string, rows [][]string)
	// JSON outputs a value as JSON.
	JSON(v any) error
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewOutput creates the appropriate output based on format.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
