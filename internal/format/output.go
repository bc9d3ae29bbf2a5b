package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Tabular is implemented by command payloads that can be shown as a table.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - table
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "table":
		return WriteTable(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: We intentionally keep output strict JSON only. If you need to
// communicate how to fetch more data, use a `meta` object or `_hints` fields.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteTable renders the envelope's data as a table. Payloads that are not Tabular
// fall back to pretty JSON so every command still prints something readable.
func WriteTable(w io.Writer, v any) error {
	data := v
	if env, ok := v.(map[string]any); ok {
		if d, ok := env["data"]; ok {
			data = d
		}
	}
	t, ok := data.(Tabular)
	if !ok {
		return WriteJSON(w, data, true)
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true

	header := t.Header()
	cells := make([]any, 0, len(header))
	for _, h := range header {
		cells = append(cells, bold.Sprint(h))
	}
	tbl.AddRow(cells...)
	for _, row := range t.Rows() {
		cells := make([]any, 0, len(row))
		for _, c := range row {
			cells = append(cells, c)
		}
		tbl.AddRow(cells...)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}
