// Package statusutil parses the status words the CLI accepts for todos.
package statusutil

import (
	"fmt"
	"strings"

	"gtodo-cli/internal/model"
)

// ErrInvalidStatus is returned for words that name neither a column nor "all".
type ErrInvalidStatus struct {
	Value string
}

func (e ErrInvalidStatus) Error() string {
	return fmt.Sprintf("invalid status %q (expected pending|done|all)", e.Value)
}

// NormalizeStatus maps a user-supplied status to a board column. An empty column with a
// nil error means "all". Common synonyms are accepted.
func NormalizeStatus(s string) (model.Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "any":
		return "", nil
	case "pending", "todo", "open":
		return model.ColumnPending, nil
	case "done", "completed", "complete":
		return model.ColumnDone, nil
	default:
		return "", ErrInvalidStatus{Value: strings.TrimSpace(s)}
	}
}

// Filter keeps todos in col, preserving order. An empty col keeps everything.
func Filter(todos []model.Todo, col model.Column) []model.Todo {
	if col == "" {
		return todos
	}
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if model.ColumnOf(t) == col {
			out = append(out, t)
		}
	}
	return out
}

// Label is the word shown for a todo's status.
func Label(t model.Todo) string {
	return string(model.ColumnOf(t))
}
