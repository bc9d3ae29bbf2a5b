package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"gtodo-cli/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write Markdown pages for todos and folders (read-only copies)",
	}

	todoCmd := &cobra.Command{
		Use:   "todo <todo-id>",
		Short: "Publish a single todo as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTodoID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			return withSession(cmd, app, func(s *session) error {
				res, err := publish.WriteTodo(s.svc.Snapshot(), id, toDir, publish.WriteOptions{Overwrite: overwrite})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			})
		},
	}
	folderCmd := &cobra.Command{
		Use:   "folder <folder-id>",
		Short: "Publish a folder index + todo pages as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			return withSession(cmd, app, func(s *session) error {
				res, err := publish.WriteFolder(s.svc.Snapshot(), args[0], toDir, publish.WriteOptions{Overwrite: overwrite})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   res,
					"_hints": []string{"gtodo publish folder " + args[0] + " --to " + toDir + " --overwrite"},
				})
			})
		},
	}

	cmd.PersistentFlags().StringVar(&toDir, "to", "", "Output directory")
	cmd.PersistentFlags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")

	cmd.AddCommand(todoCmd)
	cmd.AddCommand(folderCmd)
	return cmd
}
