package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

type rows [][]string

func (r rows) Header() []string { return []string{"ID", "NAME"} }
func (r rows) Rows() [][]string { return r }

func TestWriteJSON_Envelope(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": []int{1, 2}}, "json", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"data":[1,2]}` {
		t.Fatalf("unexpected json %q", got)
	}
}

func TestWriteTable(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	data := rows{{"fld-1", "업무"}, {"fld-2", "개인"}}
	if err := Write(&buf, map[string]any{"data": data, "meta": map[string]any{"count": 2}}, "table", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "NAME", "fld-1", "업무", "fld-2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "count") {
		t.Fatalf("meta must not be rendered in table mode:\n%s", out)
	}
}

func TestWriteTable_FallsBackToJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": map[string]any{"ok": true}}, "table", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"ok": true`) {
		t.Fatalf("expected pretty json fallback, got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, nil, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
