package cli

import (
	"github.com/spf13/cobra"

	"gtodo-cli/internal/command"
)

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Folder commands",
	}
	cmd.AddCommand(newFoldersListCmd(app))
	cmd.AddCommand(newFoldersCreateCmd(app))
	cmd.AddCommand(newFoldersRenameCmd(app))
	cmd.AddCommand(newFoldersDeleteCmd(app))
	cmd.AddCommand(newFoldersReorderCmd(app))
	return cmd
}

func newFoldersListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List folders in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				db := s.svc.Snapshot()
				return writeOut(cmd, app, map[string]any{
					"data": folderList(db.Folders),
					"meta": map[string]any{"count": len(db.Folders)},
				})
			})
		},
	}
	return cmd
}

func newFoldersCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				f, err := s.svc.CreateFolder(name)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   f,
					"_hints": []string{"gtodo categories create --folder " + f.ID + " --name <name>"},
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Folder name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoldersRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <folder-id>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				if err := s.svc.RenameFolder(args[0], name); err != nil {
					return writeErr(cmd, err)
				}
				f, _ := s.svc.Snapshot().FindFolder(args[0])
				return writeOut(cmd, app, map[string]any{"data": f})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New folder name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoldersDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder with its categories and todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				return runDelete(cmd, app, s, command.FolderTarget{FolderID: args[0]}, args[0], yes)
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the cascade delete")
	return cmd
}

func newFoldersReorderCmd(app *App) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "reorder <folder-id>",
		Short: "Move a folder to a position (0-based)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				from := s.svc.Snapshot().FolderIndex(args[0])
				if from < 0 {
					return writeErr(cmd, errNotFound("folder", args[0]))
				}
				changed := s.svc.ReorderFolders(from, to)
				return writeOut(cmd, app, map[string]any{
					"data": folderList(s.svc.Snapshot().Folders),
					"meta": map[string]any{"changed": changed, "from": from, "to": to},
				})
			})
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "Target position (0-based)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// runDelete shows the cascade impact and only deletes once --yes confirms it.
func runDelete(cmd *cobra.Command, app *App, s *session, t command.Target, id string, yes bool) error {
	c, ok := command.NewConfirm(s.svc.Snapshot(), t)
	if !ok {
		return writeErr(cmd, errNotFound(t.Kind(), id))
	}
	if !yes {
		return writeOut(cmd, app, map[string]any{
			"data":   map[string]any{"deleted": false, "confirm": c.Body},
			"_hints": []string{"re-run with --yes to delete"},
		})
	}

	surface := command.NewSurface(s.svc, command.LogNotifier{Log: app.log})
	surface.RequestDelete(t)
	surface.ConfirmDelete()
	return writeOut(cmd, app, map[string]any{
		"data": map[string]any{"deleted": true, "confirm": c.Body},
	})
}
