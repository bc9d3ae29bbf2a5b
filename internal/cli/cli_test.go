package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gtodo-cli/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// cliRunner runs commands against an isolated config dir and backend.
func cliRunner(t *testing.T, backend string) (dir string, mustRun func(args ...string) map[string]any) {
	t.Helper()
	dir = t.TempDir()
	base := []string{"--config-dir", dir, "--backend", backend}

	mustRun = func(args ...string) map[string]any {
		t.Helper()
		stdout, stderr, err := runCLI(t, append(append([]string{}, base...), args...))
		if err != nil {
			t.Fatalf("command failed: gtodo %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
		}
		var env map[string]any
		if err := json.Unmarshal(stdout, &env); err != nil {
			t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
		}
		if _, ok := env["data"]; !ok {
			t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
		}
		return env
	}
	return dir, mustRun
}

func dataList(t *testing.T, env map[string]any) []any {
	t.Helper()
	xs, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected data to be a list; got %#v", env["data"])
	}
	return xs
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data to be an object; got %#v", env["data"])
	}
	return m
}

func TestCLI_FolderCategoryTodoLifecycle(t *testing.T) {
	t.Parallel()

	_, mustRun := cliRunner(t, store.BackendDiskv)

	folders := dataList(t, mustRun("folders", "list"))
	if len(folders) != 2 {
		t.Fatalf("expected the two default folders; got %#v", folders)
	}

	study := dataMap(t, mustRun("folders", "create", "--name", "  Study  "))
	studyID, _ := study["id"].(string)
	if !strings.HasPrefix(studyID, "fld-") || study["name"] != "Study" {
		t.Fatalf("unexpected folder %#v", study)
	}

	cat := dataMap(t, mustRun("categories", "create", "--folder", studyID, "--name", "Go"))
	catID, _ := cat["id"].(string)
	if !strings.HasPrefix(catID, "cat-") {
		t.Fatalf("unexpected category %#v", cat)
	}

	todo := dataMap(t, mustRun("todos", "create", "--folder", studyID, "--category", catID, "--title", "Read Effective Go", "--due", "2026-11-01"))
	id := strconv.FormatInt(int64(todo["id"].(float64)), 10)
	if todo["dueDate"] != "2026-11-01" || todo["completed"] != false {
		t.Fatalf("unexpected todo %#v", todo)
	}

	pending := dataList(t, mustRun("todos", "list", "--folder", studyID, "--status", "pending"))
	if len(pending) != 1 {
		t.Fatalf("expected one pending todo; got %#v", pending)
	}

	mustRun("todos", "complete", id)
	done := dataList(t, mustRun("todos", "list", "--folder", studyID, "--status", "done"))
	if len(done) != 1 {
		t.Fatalf("expected todo in done; got %#v", done)
	}

	updated := dataMap(t, mustRun("todos", "update", id, "--title", "Re-read Effective Go", "--due", ""))
	if updated["title"] != "Re-read Effective Go" || updated["dueDate"] != nil {
		t.Fatalf("unexpected update result %#v", updated)
	}

	shown := mustRun("todos", "show", id)
	if meta, _ := shown["meta"].(map[string]any); meta["folder"] != "Study" || meta["status"] != "done" {
		t.Fatalf("unexpected show meta %#v", shown["meta"])
	}

	preview := dataMap(t, mustRun("folders", "delete", studyID))
	if preview["deleted"] != false || preview["confirm"] != `Deletes folder "Study", its 1 category and 1 todo.` {
		t.Fatalf("unexpected delete preview %#v", preview)
	}
	if got := dataList(t, mustRun("todos", "list", "--folder", studyID)); len(got) != 1 {
		t.Fatalf("nothing may be deleted without --yes; got %#v", got)
	}

	mustRun("folders", "delete", studyID, "--yes")
	if got := dataList(t, mustRun("folders", "list")); len(got) != 2 {
		t.Fatalf("expected folder removed; got %#v", got)
	}
	for _, raw := range dataList(t, mustRun("todos", "list")) {
		if raw.(map[string]any)["folderId"] == studyID {
			t.Fatalf("expected cascade to remove todo %#v", raw)
		}
	}
}

func TestCLI_DuplicateNameFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, stderr, err := runCLI(t, []string{"--config-dir", dir, "--backend", "diskv", "folders", "create", "--name", " 업무 "})
	if err == nil {
		t.Fatalf("expected duplicate folder name to fail")
	}
	if !strings.Contains(string(stderr), "already exists") {
		t.Fatalf("expected duplicate error on stderr; got %q", string(stderr))
	}

	_, _, err = runCLI(t, []string{"--config-dir", dir, "--backend", "diskv", "todos", "create",
		"--folder", "fld-work", "--category", "cat-missing", "--title", "x"})
	if err == nil {
		t.Fatalf("expected unknown category to fail")
	}
}

func TestCLI_SQLiteBackendPersistsAcrossInvocations(t *testing.T) {
	t.Parallel()

	dir, mustRun := cliRunner(t, store.BackendSQLite)
	mustRun("folders", "create", "--name", "Garden")
	mustRun("folders", "reorder", "fld-personal", "--to", "0")

	folders := dataList(t, mustRun("folders", "list"))
	var names []string
	for _, f := range folders {
		names = append(names, f.(map[string]any)["name"].(string))
	}
	if strings.Join(names, ",") != "개인,업무,Garden" {
		t.Fatalf("unexpected order %v", names)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "gtodo.sqlite")); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}
}

func TestCLI_TableFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stdout, _, err := runCLI(t, []string{"--config-dir", dir, "--backend", "memory", "--format", "table", "todos", "list"})
	if err != nil {
		t.Fatalf("todos list: %v", err)
	}
	out := string(stdout)
	for _, want := range []string{"ID", "STATUS", "TITLE", "장보기", "2026-12-31"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table output:\n%s", want, out)
		}
	}
}

func TestCLI_DoctorFixAndFail(t *testing.T) {
	t.Parallel()

	dir, mustRun := cliRunner(t, store.BackendDiskv)
	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	raw := `{"version":1,"folders":[{"id":"f1","name":"Inbox","categories":[{"id":"c1","name":"All"}]},{"id":"broken"}],` +
		`"todos":[{"id":1,"title":"ok","folderId":"f1","categoryId":"c1"},{"id":2,"title":"orphan","folderId":"nope","categoryId":"c1"}]}`
	if err := os.WriteFile(filepath.Join(dataDir, store.DefaultKey), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"--config-dir", dir, "--backend", "diskv", "doctor", "--fail"})
	if !errors.Is(err, store.ErrDoctorIssuesFound) {
		t.Fatalf("expected ErrDoctorIssuesFound; got %v", err)
	}

	mustRun("doctor", "--fix")
	env := mustRun("doctor", "--fail")
	if meta, _ := env["meta"].(map[string]any); meta["issues"] != float64(0) {
		t.Fatalf("expected a clean document after --fix; got %#v", env["meta"])
	}
	todos := dataList(t, mustRun("todos", "list"))
	if len(todos) != 1 {
		t.Fatalf("expected orphan todo dropped; got %#v", todos)
	}
}

func TestCLI_ExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	_, mustRun := cliRunner(t, store.BackendDiskv)
	mustRun("folders", "create", "--name", "Exported")
	out := filepath.Join(t.TempDir(), "todos.json")
	mustRun("export", "--out", out)

	dir2, mustRun2 := cliRunner(t, store.BackendDiskv)
	imported := dataMap(t, mustRun2("import", out))
	if imported["folders"] != float64(3) {
		t.Fatalf("unexpected import result %#v", imported)
	}
	folders := dataList(t, mustRun2("folders", "list"))
	if folders[2].(map[string]any)["name"] != "Exported" {
		t.Fatalf("expected imported folder; got %#v", folders)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"--config-dir", dir2, "--backend", "diskv", "import", bad}); err == nil {
		t.Fatalf("expected unusable document to be refused")
	}
}

func TestCLI_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: memory\nkey: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GTODO_CONFIG_DIR", dir)
	t.Setenv("GTODO_KEY", "from-env")
	t.Setenv("GTODO_BACKEND", "")

	stdout, stderr, err := runCLI(t, []string{"config"})
	if err != nil {
		t.Fatalf("config: %v\n%s", err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data := dataMap(t, env)
	if data["backend"] != "memory" || data["key"] != "from-env" {
		t.Fatalf("unexpected resolved config %#v", data)
	}

	stdout, _, err = runCLI(t, []string{"--key", "from-flag", "config"})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(string(stdout), `"key":"from-flag"`) {
		t.Fatalf("expected flag to win; got %s", stdout)
	}
}

func TestCLI_InvalidArgs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cases := [][]string{
		{"todos", "show", "abc"},
		{"todos", "list", "--status", "later"},
		{"todos", "list", "--category", "cat-meetings"},
		{"todos", "update", "1"},
		{"categories", "list", "--folder", "fld-missing"},
		{"--format", "edn", "folders", "list"},
	}
	for _, args := range cases {
		full := append([]string{"--config-dir", dir, "--backend", "memory"}, args...)
		if _, _, err := runCLI(t, full); err == nil {
			t.Fatalf("expected gtodo %v to fail", args)
		}
	}
}

func TestCLI_PublishFolder(t *testing.T) {
	t.Parallel()

	_, mustRun := cliRunner(t, store.BackendMemory)
	to := t.TempDir()
	res := dataMap(t, mustRun("publish", "folder", "fld-work", "--to", to))
	written, _ := res["written"].([]any)
	if len(written) != 3 {
		t.Fatalf("expected index plus 2 todo pages; got %#v", res)
	}
	b, err := os.ReadFile(filepath.Join(to, "folders", "fld-work", "index.md"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(b), "[주간 회의 준비](todos/1.md)") {
		t.Fatalf("unexpected index:\n%s", b)
	}

	mustRun("publish", "todo", "3", "--to", to)
	if _, err := os.Stat(filepath.Join(to, "todos", "3.md")); err != nil {
		t.Fatalf("expected todo page: %v", err)
	}
}

func TestCLI_Docs(t *testing.T) {
	t.Parallel()

	_, mustRun := cliRunner(t, store.BackendMemory)
	topics := dataMap(t, mustRun("docs"))["topics"].([]any)
	if len(topics) != 4 {
		t.Fatalf("unexpected topics %#v", topics)
	}
	body := dataMap(t, mustRun("docs", "tui"))
	if !strings.Contains(body["markdown"].(string), "context menu") {
		t.Fatalf("unexpected tui docs %#v", body)
	}
}
