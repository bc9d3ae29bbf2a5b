// Package command turns context-menu picks, modal forms, and delete confirmations into
// store mutations, reporting outcomes through a Notifier.
package command

import "strconv"

// Target is the entity a context menu or confirmation is about. It is a closed set:
// FolderTarget, CategoryTarget, or TodoTarget.
type Target interface {
	isTarget()
	Kind() string
	String() string
}

type FolderTarget struct {
	FolderID string
}

type CategoryTarget struct {
	FolderID   string
	CategoryID string
}

type TodoTarget struct {
	TodoID int64
}

func (FolderTarget) isTarget()   {}
func (CategoryTarget) isTarget() {}
func (TodoTarget) isTarget()     {}

func (FolderTarget) Kind() string   { return "folder" }
func (CategoryTarget) Kind() string { return "category" }
func (TodoTarget) Kind() string     { return "todo" }

func (t FolderTarget) String() string   { return "folder:" + t.FolderID }
func (t CategoryTarget) String() string { return "category:" + t.FolderID + "/" + t.CategoryID }
func (t TodoTarget) String() string     { return "todo:" + strconv.FormatInt(t.TodoID, 10) }

type Action string

const (
	ActionAddCategory Action = "add-category"
	ActionRename      Action = "rename"
	ActionDelete      Action = "delete"
)

func (a Action) Label() string {
	switch a {
	case ActionAddCategory:
		return "Add category"
	case ActionRename:
		return "Rename"
	case ActionDelete:
		return "Delete"
	default:
		return string(a)
	}
}

// Actions lists what the context menu offers for t. Todos are edited in the detail
// view, so their menu only deletes.
func Actions(t Target) []Action {
	switch t.(type) {
	case FolderTarget:
		return []Action{ActionAddCategory, ActionRename, ActionDelete}
	case CategoryTarget:
		return []Action{ActionRename, ActionDelete}
	case TodoTarget:
		return []Action{ActionDelete}
	default:
		return nil
	}
}
