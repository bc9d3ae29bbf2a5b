package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gtodo-cli/internal/store"
)

func newImportCmd(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored todos with a document from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			report, db := store.CheckDocument(raw)
			if report.Normalization.UsedDefault {
				_ = writeOut(cmd, app, map[string]any{"data": report})
				return writeErr(cmd, fmt.Errorf("%s: no usable todo document", args[0]))
			}
			if strict && report.HasErrors() {
				_ = writeOut(cmd, app, map[string]any{"data": report})
				return writeErr(cmd, store.ErrDoctorIssuesFound)
			}
			return withSession(cmd, app, func(s *session) error {
				s.svc.Replace(db)
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"folders": len(db.Folders),
						"todos":   len(db.Todos),
					},
					"meta": map[string]any{
						"issues":      len(report.Issues),
						"usedDefault": report.Normalization.UsedDefault,
					},
				})
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Refuse documents with schema or normalization errors")
	return cmd
}
