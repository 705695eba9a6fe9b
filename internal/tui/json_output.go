package tui

import (
	"encoding/json"
	"errors"
	"io"
)

// JSONOutput writes one JSON object per message, for scripts and CI logs.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Context    string `json:"context,omitempty"`
}

func (o *JSONOutput) emit(kind, msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: kind, Message: msg})
}

// Success outputs {"type": "success", "message": "..."}.
func (o *JSONOutput) Success(msg string) { o.emit("success", msg) }

// Warning outputs {"type": "warning", "message": "..."}.
func (o *JSONOutput) Warning(msg string) { o.emit("warning", msg) }

// Info outputs {"type": "info", "message": "..."}.
func (o *JSONOutput) Info(msg string) { o.emit("info", msg) }

// Heading outputs {"type": "heading", "message": "..."}.
func (o *JSONOutput) Heading(title string) { o.emit("heading", title) }

// Block outputs {"type": "block", "message": "..."}.
func (o *JSONOutput) Block(text string) {
	if text != "" {
		o.emit("block", text)
	}
}

// Markdown outputs the unrendered document as {"type": "markdown", ...}.
func (o *JSONOutput) Markdown(md string) { o.emit("markdown", md) }

// Error outputs the error with its suggestion and context when known.
func (o *JSONOutput) Error(err error) {
	out := jsonError{Type: "error", Message: err.Error()}

	var ae *ActionableError
	if errors.As(err, &ae) {
		out.Message = ae.Message
		out.Suggestion = ae.Suggestion
		out.Context = ae.Context
	}

	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(out)
}

// Table outputs rows as an array of objects keyed by header.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = row[i]
			} else {
				obj[h] = ""
			}
		}
		result = append(result, obj)
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(result)
}

// JSON outputs an arbitrary value as JSON.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}
