package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	appsvc "gtodo-cli/internal/app"
	"gtodo-cli/internal/format"
	"gtodo-cli/internal/store"
	"gtodo-cli/internal/tui"
)

const closeTimeout = 10 * time.Second

type App struct {
	ConfigDir  string
	Backend    string
	Key        string
	PrettyJSON bool
	Format     string

	cfg store.Config
	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "gtodo",
		Short:        "gtodo (local-first) todo CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  gtodo

  # Scriptable commands
  gtodo folders list
  gtodo todos create --folder fld-work --category cat-meetings --title "Agenda"

  # Direct todo lookup (shortcut for: gtodo todos show <todo-id>)
  gtodo 1734000000000
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("GTODO_CONFIG_DIR", ""), "Config directory (default ~/.gtodo)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (diskv|sqlite|redis|memory); overrides config")
	cmd.PersistentFlags().StringVar(&app.Key, "key", "", "Durable key the todo document is stored under; overrides config")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("GTODO_FORMAT", "json"), "Output format (json|table)")

	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newTodosCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves configuration (defaults < config file < GTODO_* env < flags) and the logger.
func (app *App) setup(cmd *cobra.Command) error {
	dir := strings.TrimSpace(app.ConfigDir)
	if dir == "" {
		d, err := store.ConfigDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		dir = d
	}

	v := store.NewViper(dir)
	if app.Backend != "" {
		v.Set("backend", app.Backend)
	}
	if app.Key != "" {
		v.Set("key", app.Key)
	}
	cfg, err := store.LoadConfig(v, dir)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("load config: %w", err))
	}
	app.cfg = cfg

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = logger
	return nil
}

func newLogger(cfg store.Config, w io.Writer) (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(w)

	level := log.InfoLevel
	if s := strings.TrimSpace(cfg.LogLevel); s != "" {
		l, err := log.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("invalid log_level %q: %w", s, err)
		}
		level = l
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log_format %q (expected text|json)", cfg.LogFormat)
	}
	return logger, nil
}

// session is one opened store: the service plus its persistence and autosaver.
type session struct {
	svc     *appsvc.Service
	p       *store.Persistence
	saver   *store.Autosaver
	report  store.Report
	backend store.Backend

	unsubscribe func()
}

func openSession(ctx context.Context, app *App) (*session, error) {
	b, err := store.OpenBackend(ctx, app.cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", app.cfg.Backend, err)
	}
	p := store.NewPersistence(b, app.cfg.Key, app.log)
	svc, rep := appsvc.Open(ctx, p, app.log)
	saver := store.NewAutosaver(p)
	return &session{
		svc:         svc,
		p:           p,
		saver:       saver,
		report:      rep,
		backend:     b,
		unsubscribe: appsvc.Autosave(svc, saver),
	}, nil
}

// Close drains the autosaver. One-shot commands treat a failed write as a command error
// so scripts see a non-zero exit.
func (s *session) Close() error {
	s.unsubscribe()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	err := s.saver.Close(ctx)
	if cerr := s.backend.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if _, failed := s.saver.Stats(); failed > 0 {
		return errSaveFailed(s.p.Key, s.backend.Name())
	}
	return nil
}

// withSession opens the store, runs fn, and closes the session. fn's error wins.
func withSession(cmd *cobra.Command, app *App, fn func(s *session) error) error {
	s, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	runErr := fn(s)
	closeErr := s.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return writeErr(cmd, closeErr)
	}
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	path := app.cfg.DefaultLogFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return writeErr(cmd, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()
	// The TUI owns the terminal; logs go to the file instead.
	app.log.SetOutput(f)

	s, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	if !s.report.Clean() {
		app.log.WithFields(log.Fields{
			"key":         s.p.Key,
			"usedDefault": s.report.UsedDefault,
			"issues":      len(s.report.Issues),
		}).Info("stored document was normalized on load")
	}
	runErr := tui.Run(s.svc, app.log)
	if err := s.Close(); err != nil {
		app.log.WithError(err).Warn("final save failed")
	}
	return runErr
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
