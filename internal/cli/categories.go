package cli

import (
	"github.com/spf13/cobra"

	"gtodo-cli/internal/command"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Category commands (categories belong to one folder)",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesCreateCmd(app))
	cmd.AddCommand(newCategoriesRenameCmd(app))
	cmd.AddCommand(newCategoriesDeleteCmd(app))
	cmd.AddCommand(newCategoriesReorderCmd(app))
	return cmd
}

func addFolderFlag(cmd *cobra.Command, folderID *string) {
	cmd.Flags().StringVar(folderID, "folder", "", "Folder id")
	_ = cmd.MarkFlagRequired("folder")
}

func newCategoriesListCmd(app *App) *cobra.Command {
	var folderID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a folder's categories in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				f, ok := s.svc.Snapshot().FindFolder(folderID)
				if !ok {
					return writeErr(cmd, errNotFound("folder", folderID))
				}
				return writeOut(cmd, app, map[string]any{
					"data": categoryList(f.Categories),
					"meta": map[string]any{"folderId": f.ID, "count": len(f.Categories)},
				})
			})
		},
	}

	addFolderFlag(cmd, &folderID)
	return cmd
}

func newCategoriesCreateCmd(app *App) *cobra.Command {
	var folderID, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category in a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				c, err := s.svc.CreateCategory(folderID, name)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   c,
					"meta":   map[string]any{"folderId": folderID},
					"_hints": []string{"gtodo todos create --folder " + folderID + " --category " + c.ID + " --title <title>"},
				})
			})
		},
	}

	addFolderFlag(cmd, &folderID)
	cmd.Flags().StringVar(&name, "name", "", "Category name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesRenameCmd(app *App) *cobra.Command {
	var folderID, name string

	cmd := &cobra.Command{
		Use:   "rename <category-id>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				if err := s.svc.RenameCategory(folderID, args[0], name); err != nil {
					return writeErr(cmd, err)
				}
				c, _ := s.svc.Snapshot().ResolveCategory(folderID, args[0])
				return writeOut(cmd, app, map[string]any{
					"data": c,
					"meta": map[string]any{"folderId": folderID},
				})
			})
		},
	}

	addFolderFlag(cmd, &folderID)
	cmd.Flags().StringVar(&name, "name", "", "New category name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesDeleteCmd(app *App) *cobra.Command {
	var folderID string
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category and its todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				t := command.CategoryTarget{FolderID: folderID, CategoryID: args[0]}
				return runDelete(cmd, app, s, t, args[0], yes)
			})
		},
	}

	addFolderFlag(cmd, &folderID)
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the cascade delete")
	return cmd
}

func newCategoriesReorderCmd(app *App) *cobra.Command {
	var folderID string
	var to int

	cmd := &cobra.Command{
		Use:   "reorder <category-id>",
		Short: "Move a category to a position within its folder (0-based)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				from := s.svc.Snapshot().CategoryIndex(folderID, args[0])
				if from < 0 {
					return writeErr(cmd, errNotFound("category", args[0]))
				}
				changed := s.svc.ReorderCategories(folderID, from, to)
				f, _ := s.svc.Snapshot().FindFolder(folderID)
				return writeOut(cmd, app, map[string]any{
					"data": categoryList(f.Categories),
					"meta": map[string]any{"folderId": folderID, "changed": changed, "from": from, "to": to},
				})
			})
		},
	}

	addFolderFlag(cmd, &folderID)
	cmd.Flags().IntVar(&to, "to", 0, "Target position (0-based)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
