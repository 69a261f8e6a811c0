package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"taskflow/internal/format"
	"taskflow/internal/logging"
	"taskflow/internal/model"
	"taskflow/internal/store"
	"taskflow/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Backend    string
	Format     string
	PrettyJSON bool
	Theme      string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskflow",
		Short:        "Task Flow: a small local todo list (TUI + CLI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskflow

  # Scriptable commands
  taskflow add "Write API docs"
  taskflow list --filter active
  taskflow toggle 1a2b3c

  # Serve the same list in a browser
  taskflow web --addr 127.0.0.1:7878
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKFLOW_DIR", ""), "Data directory (default ~/.taskflow/data)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("TASKFLOW_BACKEND", ""), "Slot backend (sqlite|file); empty auto-detects")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKFLOW_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Initial theme for the TUI and web shell (light|dark)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TASKFLOW_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newClearCompletedCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	sess, err := openSession(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer sess.Close()

	return tui.Run(cmd.Context(), tui.Options{
		Tasks:  sess.tasks,
		Theme:  sess.theme,
		Logger: sess.log,
	})
}

// session is everything a command needs to work on the task list.
type session struct {
	dir   string
	theme model.Theme
	log   zerolog.Logger
	slot  store.Slot
	tasks *store.TaskList

	logFile io.Closer
}

func (s *session) Close() error {
	var errs []error
	if s.slot != nil {
		errs = append(errs, s.slot.Close())
	}
	if s.logFile != nil {
		errs = append(errs, s.logFile.Close())
	}
	return errors.Join(errs...)
}

// openSession resolves settings (flag/env first, then config.json), opens the log file and
// the slot, and loads the task list.
func openSession(cmd *cobra.Command, app *App) (*session, error) {
	ctx := cmd.Context()
	cfg, cfgErr := store.LoadConfig()
	if cfgErr != nil {
		// An unreadable config.json only loses preferences; the task list still opens.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: ignoring config: %v\n", cfgErr)
		cfg = &store.Config{}
	}

	dir, err := resolveDir(app)
	if err != nil {
		return nil, err
	}

	backend, err := store.ParseBackend(firstNonEmpty(app.Backend, cfg.Backend))
	if err != nil {
		return nil, err
	}

	theme := model.Theme("")
	if raw := firstNonEmpty(app.Theme, cfg.Theme); raw != "" {
		t, ok := model.ParseTheme(raw)
		if !ok {
			return nil, fmt.Errorf("invalid theme %q (expected light|dark)", raw)
		}
		theme = t
	}

	level, err := logging.ParseLevel(firstNonEmpty(app.LogLevel, cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	log, logFile, err := logging.OpenFile(dir, level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("ignoring unreadable config")
	}

	slot, err := store.OpenSlot(ctx, dir, backend)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("open slot: %w", err)
	}

	sess := &session{
		dir:     dir,
		theme:   theme,
		log:     log,
		slot:    slot,
		logFile: logFile,
	}
	sess.tasks = store.OpenTaskList(ctx, slot, store.WithLogger(log.With().Str("component", "store").Logger()))
	return sess, nil
}

func resolveDir(app *App) (string, error) {
	if d := strings.TrimSpace(app.Dir); d != "" {
		return d, nil
	}
	return store.DefaultDataDir()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
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

// warnUnsaved reports a slot write failure. The command still succeeds: the change was
// applied, it just did not reach disk.
func warnUnsaved(cmd *cobra.Command, sess *session) bool {
	err := sess.tasks.LastPersistError()
	if err == nil {
		return false
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: not saved: %v\n", err)
	return true
}
