package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gtodo-cli/internal/command"
	"gtodo-cli/internal/model"
	"gtodo-cli/internal/mutate"
	"gtodo-cli/internal/statusutil"
)

func newTodosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "todos",
		Aliases: []string{"todo"},
		Short:   "Todo commands",
	}
	cmd.AddCommand(newTodosListCmd(app))
	cmd.AddCommand(newTodosCreateCmd(app))
	cmd.AddCommand(newTodosShowCmd(app))
	cmd.AddCommand(newTodosUpdateCmd(app))
	cmd.AddCommand(newTodosSetCompletedCmd(app, "complete", true))
	cmd.AddCommand(newTodosSetCompletedCmd(app, "uncomplete", false))
	cmd.AddCommand(newTodosDeleteCmd(app))
	cmd.AddCommand(newTodosReorderCmd(app))
	return cmd
}

func parseTodoID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errInvalidArg("todo id", s, "an integer")
	}
	return id, nil
}

// filterStatus keeps todos in the given board column; "" or "all" keeps everything.
func filterStatus(todos []model.Todo, status string) ([]model.Todo, error) {
	col, err := statusutil.NormalizeStatus(status)
	if err != nil {
		return nil, err
	}
	return statusutil.Filter(todos, col), nil
}

func newTodosListCmd(app *App) *cobra.Command {
	var folderID, categoryID, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos (optionally filtered by folder, category, and status)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				db := s.svc.Snapshot()
				todos := db.Todos
				if folderID != "" {
					if _, ok := db.FindFolder(folderID); !ok {
						return writeErr(cmd, errNotFound("folder", folderID))
					}
					if categoryID != "" {
						if _, ok := db.ResolveCategory(folderID, categoryID); !ok {
							return writeErr(cmd, errNotFound("category", categoryID))
						}
					}
					todos = db.TodosOf(folderID, categoryID)
				} else if categoryID != "" {
					return writeErr(cmd, errInvalidArg("--category", categoryID, "--folder to be set as well"))
				}

				todos, err := filterStatus(todos, status)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data": todoList(todos),
					"meta": map[string]any{"count": len(todos)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&folderID, "folder", "", "Folder id")
	cmd.Flags().StringVar(&categoryID, "category", "", "Category id (requires --folder)")
	cmd.Flags().StringVar(&status, "status", "all", "Status filter (pending|done|all)")
	return cmd
}

func newTodosCreateCmd(app *App) *cobra.Command {
	var in mutate.TodoInput
	var due string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a todo in a folder's category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("due") {
				in.DueDate = &due
			}
			return withSession(cmd, app, func(s *session) error {
				t, err := s.svc.CreateTodo(in)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   t,
					"_hints": []string{"gtodo todos complete " + strconv.FormatInt(t.ID, 10)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&in.FolderID, "folder", "", "Folder id")
	cmd.Flags().StringVar(&in.CategoryID, "category", "", "Category id")
	cmd.Flags().StringVar(&in.Title, "title", "", "Todo title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Todo description (markdown)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("folder")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTodosShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <todo-id>",
		Short: "Show a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTodoID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) error {
				db := s.svc.Snapshot()
				t, ok := db.FindTodo(id)
				if !ok {
					return writeErr(cmd, errNotFound("todo", args[0]))
				}
				meta := map[string]any{"status": statusutil.Label(*t)}
				if f, ok := db.FindFolder(t.FolderID); ok {
					meta["folder"] = f.Name
				}
				if c, ok := db.ResolveCategory(t.FolderID, t.CategoryID); ok {
					meta["category"] = c.Name
				}
				return writeOut(cmd, app, map[string]any{"data": t, "meta": meta})
			})
		},
	}
	return cmd
}

func newTodosUpdateCmd(app *App) *cobra.Command {
	var title, description, due string

	cmd := &cobra.Command{
		Use:   "update <todo-id>",
		Short: "Update a todo's title, description, or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTodoID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var p mutate.TodoPatch
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("description") {
				p.Description = &description
			}
			if cmd.Flags().Changed("due") {
				p.DueDate = &due
			}
			if p.Empty() {
				return writeErr(cmd, errInvalidArg("update", "", "at least one of --title, --description, --due"))
			}
			return withSession(cmd, app, func(s *session) error {
				if _, ok := s.svc.Snapshot().FindTodo(id); !ok {
					return writeErr(cmd, errNotFound("todo", args[0]))
				}
				if err := s.svc.UpdateTodo(id, p); err != nil {
					return writeErr(cmd, err)
				}
				t, _ := s.svc.Snapshot().FindTodo(id)
				return writeOut(cmd, app, map[string]any{"data": t})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD; empty clears it)")
	return cmd
}

func newTodosSetCompletedCmd(app *App, use string, completed bool) *cobra.Command {
	short := "Mark a todo done"
	if !completed {
		short = "Mark a todo pending"
	}

	cmd := &cobra.Command{
		Use:   use + " <todo-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTodoID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) error {
				if _, ok := s.svc.Snapshot().FindTodo(id); !ok {
					return writeErr(cmd, errNotFound("todo", args[0]))
				}
				changed := s.svc.SetTodoCompleted(id, completed)
				t, _ := s.svc.Snapshot().FindTodo(id)
				return writeOut(cmd, app, map[string]any{
					"data": t,
					"meta": map[string]any{"changed": changed},
				})
			})
		},
	}
	return cmd
}

func newTodosDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <todo-id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTodoID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) error {
				return runDelete(cmd, app, s, command.TodoTarget{TodoID: id}, args[0], yes)
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the delete")
	return cmd
}

func newTodosReorderCmd(app *App) *cobra.Command {
	var over string

	cmd := &cobra.Command{
		Use:   "reorder <todo-id>",
		Short: "Move a todo to the position of another todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := parseTodoID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			overID, err := parseTodoID(over)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) error {
				db := s.svc.Snapshot()
				if _, ok := db.FindTodo(active); !ok {
					return writeErr(cmd, errNotFound("todo", args[0]))
				}
				if _, ok := db.FindTodo(overID); !ok {
					return writeErr(cmd, errNotFound("todo", over))
				}
				changed := s.svc.ReorderTodo(active, overID)
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"changed": changed, "position": s.svc.Snapshot().TodoIndex(active)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&over, "over", "", "Todo id to take the position of")
	_ = cmd.MarkFlagRequired("over")
	return cmd
}
