// Package drag turns drag sessions (start, over, end) into store mutations: list
// reordering for folders and categories, and pending/done transitions on the status board.
package drag

import (
	"errors"
	"fmt"
	"strconv"

	"gtodo-cli/internal/model"
	"gtodo-cli/internal/store"
)

var (
	ErrDragActive   = errors.New("a drag is already active")
	ErrNoDrag       = errors.New("no active drag")
	ErrItemMismatch = errors.New("item is not the active drag item")
	ErrUnknownItem  = errors.New("unknown drag item")
)

type Kind int

const (
	KindFolder Kind = iota + 1
	KindCategory
	KindTodo
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindCategory:
		return "category"
	case KindTodo:
		return "todo"
	default:
		return "unknown"
	}
}

// Item identifies a draggable entity. Categories carry their owning folder, since category
// ids are only unique within a folder.
type Item struct {
	Kind       Kind
	FolderID   string
	CategoryID string
	TodoID     int64
}

func FolderItem(folderID string) Item { return Item{Kind: KindFolder, FolderID: folderID} }

func CategoryItem(folderID, categoryID string) Item {
	return Item{Kind: KindCategory, FolderID: folderID, CategoryID: categoryID}
}

func TodoItem(todoID int64) Item { return Item{Kind: KindTodo, TodoID: todoID} }

func (it Item) String() string {
	switch it.Kind {
	case KindFolder:
		return "folder:" + it.FolderID
	case KindCategory:
		return "category:" + it.FolderID + "/" + it.CategoryID
	case KindTodo:
		return "todo:" + strconv.FormatInt(it.TodoID, 10)
	default:
		return fmt.Sprintf("item(%d)", int(it.Kind))
	}
}

// Container is what the pointer is over: another item, whose position is the drop index,
// and/or a status board column (set when hovering a column itself, e.g. an empty one).
type Container struct {
	Over   *Item
	Column model.Column

	// KeepStatus marks a drop on the flat todo list, which has no columns: the todo
	// moves to the hovered todo's position and keeps its status.
	KeepStatus bool
}

func OverItem(it Item) *Container { return &Container{Over: &it} }

// InList is a drop onto another todo of the flat list.
func InList(todoID int64) *Container {
	over := TodoItem(todoID)
	return &Container{Over: &over, KeepStatus: true}
}

func OverColumn(col model.Column) *Container { return &Container{Column: col} }

// Board is the mutation surface the engine drives.
type Board interface {
	Snapshot() *store.DB
	ReorderFolders(oldIndex, newIndex int) bool
	ReorderCategories(folderID string, oldIndex, newIndex int) bool
	ReorderTodo(activeID, overID int64) bool
	SetTodoCompleted(todoID int64, completed bool) bool
}

// Outcome describes what a finished drag did.
type Outcome string

const (
	OutcomeNoop          Outcome = "noop"
	OutcomeReordered     Outcome = "reordered"
	OutcomeStatusChanged Outcome = "status-changed"
	OutcomeRolledBack    Outcome = "rolled-back"
	OutcomeIgnored       Outcome = "ignored"
)
