package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: must be 'text' or 'json'", s)
	}
}

// TextRenderer is implemented by results with a human-readable form.
type TextRenderer interface {
	RenderText(w io.Writer) error
}

// Write renders data to w in the given format. In text format data must
// implement TextRenderer or fmt.Stringer; anything else is printed with %v.
func Write(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	default:
		switch v := data.(type) {
		case TextRenderer:
			return v.RenderText(w)
		case fmt.Stringer:
			_, err := fmt.Fprintln(w, v.String())
			return err
		default:
			_, err := fmt.Fprintf(w, "%v\n", v)
			return err
		}
	}
}
