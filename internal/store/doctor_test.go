package store

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

func issueCodes(issues []Issue) map[string]int {
	out := map[string]int{}
	for _, it := range issues {
		out[it.Code]++
	}
	return out
}

func TestCheckDocument_ValidDocumentIsClean(t *testing.T) {
	t.Parallel()

	raw, err := Encode(DefaultDB())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rep, db := CheckDocument(raw)
	if len(rep.Issues) != 0 {
		t.Fatalf("expected no issues, got %#v", rep.Issues)
	}
	if !rep.Found || rep.HasErrors() {
		t.Fatalf("unexpected report: %#v", rep)
	}
	if len(db.Folders) != 2 {
		t.Fatalf("expected default folders, got %d", len(db.Folders))
	}
}

func TestCheckDocument_MissingKeyIsNotAnError(t *testing.T) {
	t.Parallel()

	rep, _ := CheckDocument(nil)
	if rep.Found || rep.HasErrors() || len(rep.Issues) != 0 {
		t.Fatalf("expected empty report for a never-written key, got %#v", rep)
	}
	if !rep.Normalization.UsedDefault {
		t.Fatalf("expected normalization to fall back to the default store")
	}
}

func TestCheckDocument_SchemaAndNormalizationFindings(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"version": 1,
		"folders": [{"id":"f1","name":"Work","categories":[{"id":"c1","name":"Mail"}]}],
		"todos": [
			{"id":"x","title":"bad id","folderId":"f1","categoryId":"c1"},
			{"id":2,"title":"ok","folderId":"f1","categoryId":"c1","dueDate":"tomorrow"},
			{"id":3,"title":"orphan","folderId":"f9","categoryId":"c1"}
		]
	}`)
	rep, db := CheckDocument(raw)
	if !rep.HasErrors() {
		t.Fatalf("expected schema errors, got %#v", rep.Issues)
	}
	codes := issueCodes(rep.Issues)
	if codes["schema"] == 0 {
		t.Fatalf("expected schema issues, got %#v", codes)
	}
	if codes["todo_shape"] != 1 || codes["todo_unresolved"] != 1 || codes["todo_due_date"] != 1 {
		t.Fatalf("expected normalization issues, got %#v", codes)
	}
	if len(db.Todos) != 1 || db.Todos[0].ID != 2 || db.Todos[0].DueDate != nil {
		t.Fatalf("expected only todo 2 to survive with its due date cleared, got %#v", db.Todos)
	}
}

func TestDoctor_FixWritesNormalizedDocument(t *testing.T) {
	t.Parallel()

	logger, _ := test.NewNullLogger()
	m := NewMemoryBackend()
	p := NewPersistence(m, "todos", logger)
	ctx := context.Background()

	broken := []byte(`{"folders":[{"id":"f1","name":"Work","categories":[]}],
		"todos":[{"id":1,"title":"orphan","folderId":"f1","categoryId":"gone"}]}`)
	if err := m.Write(ctx, "todos", broken); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rep, err := Doctor(ctx, p, false)
	if err != nil {
		t.Fatalf("Doctor: %v", err)
	}
	if len(rep.Issues) == 0 || rep.Key != "todos" || rep.Backend != BackendMemory {
		t.Fatalf("unexpected report: %#v", rep)
	}
	if m.Writes() != 1 {
		t.Fatalf("expected doctor without --fix to leave the document alone")
	}

	if _, err := Doctor(ctx, p, true); err != nil {
		t.Fatalf("Doctor fix: %v", err)
	}
	rep, err = Doctor(ctx, p, false)
	if err != nil {
		t.Fatalf("Doctor after fix: %v", err)
	}
	if len(rep.Issues) != 0 {
		t.Fatalf("expected a clean document after fix, got %#v", rep.Issues)
	}
}
