package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/quick"
)

// WriteJSON writes v as indented JSON. When color is set the output is
// syntax highlighted for a 256-color terminal.
func WriteJSON(w io.Writer, v any, color bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	data = append(data, '\n')
	if !color {
		_, err = w.Write(data)
		return err
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, string(data), "json", "terminal256", "monokai"); err != nil {
		_, err = w.Write(data)
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}
