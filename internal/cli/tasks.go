package cli

import (
	"fmt"
	"strings"

	"taskflow/internal/model"
	"taskflow/internal/view"

	"github.com/spf13/cobra"
)

// envelope is the {"data", "meta"} shape every command prints. text is the
// --format text rendering.
type envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
	text string
}

func (e envelope) Text() string { return e.text }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func taskLine(t model.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s  %s", box, shortID(t.ID), t.Text)
}

func statsMeta(snap view.Snapshot) map[string]any {
	return map[string]any{
		"total":     snap.Total,
		"remaining": snap.Remaining,
		"completed": snap.Completed,
		"progress":  snap.Progress,
		"summary":   snap.Summary(),
	}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task (newest first); blank text is ignored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			t, ok := sess.tasks.Add(cmd.Context(), strings.Join(args, " "))
			if !ok {
				return writeOut(cmd, app, envelope{Data: nil, Meta: map[string]any{"added": false}})
			}
			saved := !warnUnsaved(cmd, sess)
			return writeOut(cmd, app, envelope{
				Data: t,
				Meta: map[string]any{"added": true, "saved": saved},
				text: "Added " + taskLine(t),
			})
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := view.ParseFilter(filter)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			snap := view.Compute(sess.tasks.Tasks(), f)
			meta := statsMeta(snap)
			meta["filter"] = string(f)

			var b strings.Builder
			if msg := snap.EmptyMessage(); msg != "" {
				b.WriteString(msg + "\n")
			}
			for _, t := range snap.Visible {
				b.WriteString(taskLine(t) + "\n")
			}
			fmt.Fprintf(&b, "%s (%s)", snap.Summary(), snap.ProgressLabel())

			return writeOut(cmd, app, envelope{Data: snap.Visible, Meta: meta, text: b.String()})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "Filter (all|active|completed)")
	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id|prefix>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			t, ok := sess.tasks.Resolve(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			sess.tasks.Toggle(cmd.Context(), t.ID)
			t, _ = sess.tasks.Get(t.ID)
			saved := !warnUnsaved(cmd, sess)
			return writeOut(cmd, app, envelope{
				Data: t,
				Meta: map[string]any{"saved": saved},
				text: taskLine(t),
			})
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|prefix>",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			t, ok := sess.tasks.Resolve(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			sess.tasks.Remove(cmd.Context(), t.ID)
			saved := !warnUnsaved(cmd, sess)
			return writeOut(cmd, app, envelope{
				Data: t,
				Meta: map[string]any{"removed": true, "saved": saved},
				text: "Removed " + taskLine(t),
			})
		},
	}
}

func newClearCompletedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			n := sess.tasks.ClearCompleted(cmd.Context())
			saved := !warnUnsaved(cmd, sess)
			return writeOut(cmd, app, envelope{
				Data: map[string]any{"removed": n},
				Meta: map[string]any{"saved": saved},
				text: fmt.Sprintf("Cleared %d completed", n),
			})
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counts and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			snap := view.Compute(sess.tasks.Tasks(), view.FilterAll)
			return writeOut(cmd, app, envelope{
				Data: statsMeta(snap),
				text: fmt.Sprintf("%s\n%s", snap.ProgressLabel(), snap.Summary()),
			})
		},
	}
}
