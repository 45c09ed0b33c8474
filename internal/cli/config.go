package cli

import (
	"fmt"
	"strings"

	"clump-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(newConfigInitCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	return cmd
}

func configPath(app *App) (string, error) {
	if app.ConfigPath != "" {
		return app.ConfigPath, nil
	}
	return config.Path()
}

func newConfigInitCmd(app *App) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the server URL (and optionally a session cookie) to config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := config.Load(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Server != "" {
				cfg.Server.URL = strings.TrimRight(strings.TrimSpace(app.Server), "/")
			}
			if session != "" {
				cfg.Server.Session = session
			}
			if err := cfg.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			if err := config.Save(path, cfg); err != nil {
				return writeErr(cmd, fmt.Errorf("write %s: %w", path, err))
			}
			app.cfg = cfg
			return writeOut(cmd, app, map[string]any{"path": path, "server": cfg.Server.URL})
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "Session cookie value of a logged-in browser session")
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (session redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(app); err != nil {
				return writeErr(cmd, err)
			}
			shown := *app.cfg
			if shown.Server.Session != "" {
				shown.Server.Session = "<redacted>"
			}
			return writeOut(cmd, app, shown)
		},
	}
}
