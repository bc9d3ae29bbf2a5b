package cli

import (
	"os"

	"github.com/spf13/cobra"

	"gtodo-cli/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print (or write) the normalized todo document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) error {
				db := s.svc.Snapshot()
				if out == "" {
					return writeOut(cmd, app, map[string]any{
						"data": db,
						"meta": map[string]any{"key": s.p.Key, "backend": s.backend.Name()},
					})
				}
				b, err := store.Encode(db)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := os.WriteFile(out, b, 0o644); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   map[string]any{"path": out, "folders": len(db.Folders), "todos": len(db.Todos)},
					"_hints": []string{"gtodo import " + out},
				})
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the document to this file instead of stdout")
	return cmd
}
