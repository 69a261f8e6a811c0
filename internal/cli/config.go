package cli

import (
	"fmt"
	"strings"

	"taskflow/internal/logging"
	"taskflow/internal/model"
	"taskflow/internal/store"

	"github.com/spf13/cobra"
)

var configKeys = []string{"backend", "theme", "logLevel"}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change saved preferences (~/.taskflow/config.json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, _ := store.ConfigPath()
			return writeOut(cmd, app, envelope{
				Data: cfg,
				Meta: map[string]any{"path": path},
				text: configText(cfg),
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference (backend|theme|logLevel); an empty value clears it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: cfg, text: configText(cfg)})
		},
	})

	return cmd
}

func setConfigValue(cfg *store.Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "backend":
		b, err := store.ParseBackend(value)
		if err != nil {
			return err
		}
		if b == store.BackendMemory {
			return fmt.Errorf("backend %q cannot be saved as a default", b)
		}
		cfg.Backend = string(b)
	case "theme":
		if value == "" {
			cfg.Theme = ""
			return nil
		}
		t, ok := model.ParseTheme(value)
		if !ok {
			return fmt.Errorf("invalid theme %q (expected light|dark)", value)
		}
		cfg.Theme = string(t)
	case "logLevel":
		if value != "" {
			if _, err := logging.ParseLevel(value); err != nil {
				return err
			}
		}
		cfg.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown config key %q (expected %s)", key, strings.Join(configKeys, "|"))
	}
	return nil
}

func configText(cfg *store.Config) string {
	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	return fmt.Sprintf("backend  %s\ntheme    %s\nlogLevel %s", orDash(cfg.Backend), orDash(cfg.Theme), orDash(cfg.LogLevel))
}
