package cli

import (
	"fmt"

	"taskflow/internal/docs"
	"taskflow/internal/model"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				topics := docs.Topics()
				return writeOut(cmd, app, envelope{
					Data: map[string]any{"topics": topics},
					text: fmt.Sprint(topics),
				})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `taskflow docs` to list topics)", topic))
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			return writeOut(cmd, app, envelope{
				Data: map[string]any{"topic": topic, "markdown": body},
				text: renderDocs(body, app.Theme),
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")

	return cmd
}

// renderDocs styles markdown for the terminal, falling back to the raw text.
func renderDocs(body, theme string) string {
	style := "dark"
	if t, ok := model.ParseTheme(theme); ok && t == model.ThemeLight {
		style = "light"
	}
	out, err := glamour.Render(body, style)
	if err != nil {
		return body
	}
	return out
}
