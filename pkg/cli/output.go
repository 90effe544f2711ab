package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
)

// Formatter renders command output.
type Formatter interface {
	// FormatTo writes the rendered data to w.
	FormatTo(w io.Writer, data any) error
}

// TextFormatter renders output as plain text.
type TextFormatter struct{}

func (TextFormatter) FormatTo(w io.Writer, data any) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter renders output as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// NewFormatter creates a formatter for the named format.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatText, "":
		return TextFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
