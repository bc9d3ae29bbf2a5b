package model

// Folder is the top-level grouping. It owns its categories; todos only reference it by id.
type Folder struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Category is scoped to exactly one folder.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Todo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FolderID    string `json:"folderId"`
	CategoryID  string `json:"categoryId"`

	// DueDate is a YYYY-MM-DD string; nil means no due date.
	DueDate   *string `json:"dueDate"`
	Completed bool    `json:"completed"`
}

// Column is the status board column a todo is shown in.
type Column string

const (
	ColumnPending Column = "pending"
	ColumnDone    Column = "done"
)

func (c Column) Valid() bool {
	return c == ColumnPending || c == ColumnDone
}

// Completed reports the completion status that dropping a todo into c implies.
func (c Column) Completed() bool {
	return c == ColumnDone
}

func ColumnOf(t Todo) Column {
	if t.Completed {
		return ColumnDone
	}
	return ColumnPending
}

func (c *Category) Clone() Category {
	return Category{ID: c.ID, Name: c.Name}
}

func (f *Folder) Clone() Folder {
	out := Folder{ID: f.ID, Name: f.Name, Categories: make([]Category, len(f.Categories))}
	copy(out.Categories, f.Categories)
	return out
}

func (t *Todo) Clone() Todo {
	out := *t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return out
}
