package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gtodo-cli/internal/store"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail, fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the stored todo document against its schema and normalization rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeFn, err := openPersistence(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			report, err := store.Doctor(cmd.Context(), p, fix)
			if err != nil {
				return writeErr(cmd, err)
			}

			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
				"fixed":     fix && len(report.Issues) > 0,
			}
			hints := []string{
				"gtodo doctor --fix",
				"gtodo export",
			}

			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && !fix && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	cmd.Flags().BoolVar(&fix, "fix", false, "Write the normalized document back")
	return cmd
}

// openPersistence opens the configured backend without loading a service.
func openPersistence(ctx context.Context, app *App) (*store.Persistence, func(), error) {
	b, err := store.OpenBackend(ctx, app.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s backend: %w", app.cfg.Backend, err)
	}
	p := store.NewPersistence(b, app.cfg.Key, app.log)
	return p, func() { _ = b.Close() }, nil
}
