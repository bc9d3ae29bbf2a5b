package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"gtodo-cli/internal/model"
)

// DueDateLayout is the only due date format written to the document.
const DueDateLayout = "2006-01-02"

var dueDateInputLayouts = []string{
	DueDateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// NormalizeDueDate reduces s to DueDateLayout. Timestamps keep their calendar date.
func NormalizeDueDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateInputLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(DueDateLayout), true
		}
	}
	return "", false
}

type IssueLevel string

const (
	IssueLevelError IssueLevel = "error"
	IssueLevelWarn  IssueLevel = "warn"
)

// Issue is one normalization finding. Paths are JSON pointers into the raw document.
type Issue struct {
	Level   IssueLevel `json:"level"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Path    string     `json:"path,omitempty"`
}

// Report describes what Decode had to do to turn a raw blob into a valid DB.
type Report struct {
	UsedDefault    bool    `json:"usedDefault"`
	Version        int     `json:"version"`
	DroppedFolders int     `json:"droppedFolders"`
	DroppedTodos   int     `json:"droppedTodos"`
	Issues         []Issue `json:"issues"`
}

// Clean reports whether the blob decoded without any changes.
func (r Report) Clean() bool {
	return !r.UsedDefault && len(r.Issues) == 0
}

func (r *Report) add(level IssueLevel, code, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Level:   level,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	})
}

func (r *Report) fallback(code, path, format string, args ...any) {
	r.add(IssueLevelError, code, path, format, args...)
	r.UsedDefault = true
}

// Decode turns a persisted blob into a valid DB. It never fails: a missing or unusable blob
// yields DefaultDB, and individual folders or todos that fail their checks are dropped.
func Decode(raw []byte) (db *DB, rep Report) {
	defer func() {
		if p := recover(); p != nil {
			rep = Report{}
			rep.fallback("decode_panic", "", "decode: %v", p)
			db = DefaultDB()
		}
	}()

	if len(bytes.TrimSpace(raw)) == 0 {
		rep.fallback("blob_missing", "", "no stored document")
		return DefaultDB(), rep
	}

	var root any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		rep.fallback("invalid_json", "", "parse: %v", err)
		return DefaultDB(), rep
	}

	obj, ok := root.(map[string]any)
	if !ok {
		rep.fallback("root_shape", "", "document is not an object")
		return DefaultDB(), rep
	}
	rawFolders, okFolders := obj["folders"].([]any)
	rawTodos, okTodos := obj["todos"].([]any)
	if !okFolders || !okTodos {
		rep.fallback("root_shape", "", "document needs folders and todos arrays")
		return DefaultDB(), rep
	}

	rep.Version = decodeVersion(obj["version"], &rep)

	out := &DB{
		Version: CurrentVersion,
		Folders: make([]model.Folder, 0, len(rawFolders)),
		Todos:   make([]model.Todo, 0, len(rawTodos)),
	}

	seenFolders := map[string]bool{}
	for i, rf := range rawFolders {
		path := fmt.Sprintf("/folders/%d", i)
		f, ok := decodeFolder(rf, path, &rep)
		if !ok {
			rep.DroppedFolders++
			continue
		}
		if seenFolders[f.ID] {
			rep.add(IssueLevelWarn, "duplicate_folder_id", path, "duplicate folder id %q dropped", f.ID)
			rep.DroppedFolders++
			continue
		}
		seenFolders[f.ID] = true
		out.Folders = append(out.Folders, f)
	}
	if len(out.Folders) == 0 {
		rep.fallback("no_folders", "/folders", "no valid folders")
		return DefaultDB(), rep
	}

	seenTodos := map[int64]bool{}
	for i, rt := range rawTodos {
		path := fmt.Sprintf("/todos/%d", i)
		t, ok := decodeTodo(rt, path, &rep)
		if !ok {
			rep.DroppedTodos++
			continue
		}
		if _, ok := out.ResolveCategory(t.FolderID, t.CategoryID); !ok {
			rep.add(IssueLevelWarn, "todo_unresolved", path,
				"todo %d references missing category %s/%s", t.ID, t.FolderID, t.CategoryID)
			rep.DroppedTodos++
			continue
		}
		if seenTodos[t.ID] {
			rep.add(IssueLevelWarn, "duplicate_todo_id", path, "duplicate todo id %d dropped", t.ID)
			rep.DroppedTodos++
			continue
		}
		seenTodos[t.ID] = true
		out.Todos = append(out.Todos, t)
	}

	return out, rep
}

func decodeVersion(v any, rep *Report) int {
	if v == nil {
		return 0
	}
	n, ok := v.(json.Number)
	if !ok {
		rep.add(IssueLevelWarn, "version_shape", "/version", "version is not a number")
		return 0
	}
	ver, err := n.Int64()
	if err != nil || ver < 0 {
		rep.add(IssueLevelWarn, "version_shape", "/version", "invalid version %s", n.String())
		return 0
	}
	if ver > CurrentVersion {
		rep.add(IssueLevelWarn, "version_newer", "/version",
			"document version %d is newer than %d; unknown fields are ignored", ver, CurrentVersion)
	}
	return int(ver)
}

func decodeFolder(v any, path string, rep *Report) (model.Folder, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		rep.add(IssueLevelWarn, "folder_shape", path, "folder is not an object")
		return model.Folder{}, false
	}
	id, okID := obj["id"].(string)
	name, okName := obj["name"].(string)
	if !okID || !okName {
		rep.add(IssueLevelWarn, "folder_shape", path, "folder needs string id and name")
		return model.Folder{}, false
	}
	rawCats, ok := obj["categories"].([]any)
	if !ok {
		rep.add(IssueLevelWarn, "folder_shape", path, "folder %q has no categories array", id)
		return model.Folder{}, false
	}

	f := model.Folder{ID: id, Name: name, Categories: make([]model.Category, 0, len(rawCats))}
	seen := map[string]bool{}
	for j, rc := range rawCats {
		cpath := fmt.Sprintf("%s/categories/%d", path, j)
		cobj, ok := rc.(map[string]any)
		if !ok {
			rep.add(IssueLevelWarn, "category_shape", cpath, "category is not an object; folder %q dropped", id)
			return model.Folder{}, false
		}
		cid, okID := cobj["id"].(string)
		cname, okName := cobj["name"].(string)
		if !okID || !okName {
			rep.add(IssueLevelWarn, "category_shape", cpath, "category needs string id and name; folder %q dropped", id)
			return model.Folder{}, false
		}
		if seen[cid] {
			rep.add(IssueLevelWarn, "duplicate_category_id", cpath, "duplicate category id %q dropped", cid)
			continue
		}
		seen[cid] = true
		f.Categories = append(f.Categories, model.Category{ID: cid, Name: cname})
	}
	return f, true
}

func decodeTodo(v any, path string, rep *Report) (model.Todo, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		rep.add(IssueLevelWarn, "todo_shape", path, "todo is not an object")
		return model.Todo{}, false
	}
	id, ok := decodeTodoID(obj["id"])
	if !ok {
		rep.add(IssueLevelWarn, "todo_shape", path, "todo needs an integer id")
		return model.Todo{}, false
	}
	title, okTitle := obj["title"].(string)
	folderID, okFolder := obj["folderId"].(string)
	categoryID, okCategory := obj["categoryId"].(string)
	if !okTitle || !okFolder || !okCategory {
		rep.add(IssueLevelWarn, "todo_shape", path, "todo %d needs string title, folderId and categoryId", id)
		return model.Todo{}, false
	}

	t := model.Todo{
		ID:         id,
		Title:      title,
		FolderID:   folderID,
		CategoryID: categoryID,
	}
	if s, ok := obj["description"].(string); ok {
		t.Description = s
	}
	if s, ok := obj["dueDate"].(string); ok && strings.TrimSpace(s) != "" {
		if d, ok := NormalizeDueDate(s); ok {
			if d != strings.TrimSpace(s) {
				rep.add(IssueLevelWarn, "todo_due_date", path+"/dueDate", "todo %d due date %q normalized to %s", id, s, d)
			}
			t.DueDate = &d
		} else {
			rep.add(IssueLevelWarn, "todo_due_date", path+"/dueDate", "todo %d due date %q is not a date; cleared", id, s)
		}
	}
	if b, ok := obj["completed"].(bool); ok {
		t.Completed = b
	}
	return t, true
}

func decodeTodoID(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if id, err := n.Int64(); err == nil {
		return id, true
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Encode serializes db as the current document version.
func Encode(db *DB) ([]byte, error) {
	if db == nil {
		db = &DB{}
	}
	doc := DB{
		Version: CurrentVersion,
		Folders: make([]model.Folder, 0, len(db.Folders)),
		Todos:   make([]model.Todo, 0, len(db.Todos)),
	}
	for _, f := range db.Folders {
		if f.Categories == nil {
			f.Categories = []model.Category{}
		}
		doc.Folders = append(doc.Folders, f)
	}
	doc.Todos = append(doc.Todos, db.Todos...)
	return json.Marshal(doc)
}

// DefaultDB is the built-in store used on first start and whenever persisted state is unusable.
func DefaultDB() *DB {
	due := "2026-12-31"
	return &DB{
		Version: CurrentVersion,
		Folders: []model.Folder{
			{
				ID:   "fld-work",
				Name: "업무",
				Categories: []model.Category{
					{ID: "cat-meetings", Name: "회의"},
					{ID: "cat-reports", Name: "보고서"},
				},
			},
			{
				ID:   "fld-personal",
				Name: "개인",
				Categories: []model.Category{
					{ID: "cat-errands", Name: "할 일"},
					{ID: "cat-study", Name: "공부"},
				},
			},
		},
		Todos: []model.Todo{
			{
				ID:          1,
				Title:       "주간 회의 준비",
				Description: "안건 정리하고 공유하기",
				FolderID:    "fld-work",
				CategoryID:  "cat-meetings",
			},
			{
				ID:          2,
				Title:       "분기 보고서 작성",
				Description: "",
				FolderID:    "fld-work",
				CategoryID:  "cat-reports",
				DueDate:     &due,
			},
			{
				ID:          3,
				Title:       "장보기",
				Description: "우유, 계란",
				FolderID:    "fld-personal",
				CategoryID:  "cat-errands",
				Completed:   true,
			},
		},
	}
}
