package command

import "strings"

type FormKind string

const (
	FormCreateFolder   FormKind = "create-folder"
	FormRenameFolder   FormKind = "rename-folder"
	FormCreateCategory FormKind = "create-category"
	FormRenameCategory FormKind = "rename-category"
	FormCreateTodo     FormKind = "create-todo"
	FormEditTodo       FormKind = "edit-todo"
)

// Form is an open modal form. Input is the name (or, for todos, the title).
type Form struct {
	Kind       FormKind
	FolderID   string
	CategoryID string
	TodoID     int64

	Input       string
	Description string
	DueDate     string

	// Err is the inline validation message from the last rejected submit.
	Err string
}

func (f Form) Title() string {
	switch f.Kind {
	case FormCreateFolder:
		return "New folder"
	case FormRenameFolder:
		return "Rename folder"
	case FormCreateCategory:
		return "New category"
	case FormRenameCategory:
		return "Rename category"
	case FormCreateTodo:
		return "New todo"
	case FormEditTodo:
		return "Edit todo"
	default:
		return string(f.Kind)
	}
}

// Placeholder is the hint shown in the empty input.
func (f Form) Placeholder() string {
	if f.IsTodo() {
		return "Title"
	}
	return "Name"
}

// IsTodo reports whether the form also carries description and due date fields.
func (f Form) IsTodo() bool {
	return f.Kind == FormCreateTodo || f.Kind == FormEditTodo
}

// CanSubmit is false while the trimmed input is empty.
func (f Form) CanSubmit() bool {
	return strings.TrimSpace(f.Input) != ""
}
