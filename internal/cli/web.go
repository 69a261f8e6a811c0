package cli

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the task list as a local web page",
		Long: strings.TrimSpace(`
Serve the task list from a local HTTP server.

Plain HTML forms work without JavaScript. With Datastar loaded, changes patch the page in
place and every open tab follows along.
`),
		Example: strings.TrimSpace(`
# Serve on localhost
taskflow web --addr 127.0.0.1:7878
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			sess, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			theme := sess.theme
			if theme == "" {
				theme = model.ThemeLight
			}
			srv, err := web.NewServer(web.ServerConfig{
				Addr:   listenAddr,
				Tasks:  sess.tasks,
				Theme:  theme,
				Logger: sess.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"
			_ = writeOut(cmd, app, envelope{
				Data: map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"dir":       sess.dir,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				text: url,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Task Flow running at %s\n", url)
			sess.log.Info().Str("addr", actualAddr).Msg("web server started")

			return srv.Serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7878", "Bind address (host:port or :port)")
	return cmd
}
