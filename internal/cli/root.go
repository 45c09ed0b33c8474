package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"clump-cli/internal/api"
	"clump-cli/internal/config"
	"clump-cli/internal/confirm"
	"clump-cli/internal/format"
	"clump-cli/internal/logging"
	"clump-cli/internal/notify"
	"clump-cli/internal/store"
	"clump-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Server     string
	Format     string
	PrettyJSON bool
	Yes        bool
	LogLevel   string

	// Now is the clock used for relative comment times.
	Now func() time.Time

	cfg    *config.Config
	log    *slog.Logger
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{Now: time.Now}

	cmd := &cobra.Command{
		Use:          "clump",
		Short:        "Events calendar client (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  clump

  # This week's events
  clump week

  # Direct event lookup (shortcut for: clump events show <event-id>)
  clump 42

  # Read an event's forum as a tree
  clump forum show 42 --tree
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("CLUMP_CONFIG", ""), "Path to config.yaml (default: $CLUMP_CONFIG_DIR/config.yaml or ~/.clump/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", "", "Server base URL (overrides config and CLUMP_SERVER)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVarP(&app.Yes, "yes", "y", false, "Do not ask before destructive actions")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newWeekCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newForumCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	if err := loadConfig(app); err != nil {
		return writeErr(cmd, err)
	}
	path, err := app.cfg.LogFile()
	if err != nil {
		return writeErr(cmd, err)
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()

	// The TUI owns the terminal, so it logs to the file at the configured level.
	level := app.cfg.Log.Level
	if app.LogLevel != "" {
		level = app.LogLevel
	}
	app.log = logging.New(level, f)
	client, err := newClient(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	st := openStore(cmd, app)
	defer st.Close()
	return tui.Run(tui.Options{
		Client:  client,
		BaseURL: client.BaseURL(),
		Log:     app.log,
		Glyphs:  app.cfg.TUI.Glyphs,
		Theme:   app.cfg.TUI.Theme,
		Store:   st,
	})
}

// loadConfig resolves config file, environment and flags, in increasing
// precedence.
func loadConfig(app *App) error {
	path := app.ConfigPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if app.Server != "" {
		cfg.Server.URL = strings.TrimRight(strings.TrimSpace(app.Server), "/")
	}
	if app.Format != "" {
		cfg.Output.Format = app.Format
	}
	if app.PrettyJSON {
		cfg.Output.Pretty = true
	}
	if app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
	// Set before validating: commands that work offline accept a missing server.
	app.cfg = cfg
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingServer) {
			return fmt.Errorf("%w (pass --server, set CLUMP_SERVER, or run `clump config init --server <url>`)", err)
		}
		return err
	}
	return nil
}

// setup prepares a scriptable command: config, a stderr logger and a client.
func setup(cmd *cobra.Command, app *App) error {
	if err := loadConfig(app); err != nil {
		return err
	}
	stderrLogger(cmd, app)
	if app.client != nil {
		return nil
	}
	client, err := newClient(app)
	if err != nil {
		return err
	}
	app.client = client
	return nil
}

// stderrLogger gives scripted commands a logger on stderr at warn, unless
// --log-level says otherwise.
func stderrLogger(cmd *cobra.Command, app *App) {
	if app.log != nil {
		return
	}
	level := "warn"
	if app.LogLevel != "" {
		level = app.LogLevel
	}
	app.log = logging.New(level, cmd.ErrOrStderr())
}

func newClient(app *App) (*api.Client, error) {
	return api.New(app.cfg.Server.URL,
		api.WithLogger(app.log),
		api.WithTimeout(app.cfg.Server.Timeout),
		api.WithSession(app.cfg.Server.SessionCookie, app.cfg.Server.Session),
	)
}

// openStore opens the local state database. It returns nil when the state
// file is disabled or cannot be opened; the journal never blocks an action.
func openStore(cmd *cobra.Command, app *App) *store.Store {
	if app.cfg == nil || app.cfg.State.Disabled {
		return nil
	}
	path, err := app.cfg.StateFile()
	if err != nil {
		app.log.Warn("state file unavailable", "err", err)
		return nil
	}
	st, err := store.Open(cmd.Context(), path)
	if err != nil {
		app.log.Warn("open state file failed", "path", path, "err", err)
		return nil
	}
	return st
}

// record journals one attempted action.
func record(cmd *cobra.Command, app *App, a store.Action) {
	st := openStore(cmd, app)
	if st == nil {
		return
	}
	defer st.Close()
	if err := st.Record(cmd.Context(), a); err != nil {
		app.log.Warn("journal write failed", "op", a.Op, "err", err)
	}
}

func prompter(cmd *cobra.Command, app *App) confirm.Prompter {
	return confirm.Prompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr(), AssumeYes: app.Yes}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	f, pretty := app.Format, app.PrettyJSON
	if app.cfg != nil {
		f, pretty = app.cfg.Output.Format, app.cfg.Output.Pretty
	}
	return format.Write(cmd.OutOrStdout(), v, f, pretty)
}

// writeErr prints the user-facing message for err and returns err so the
// process exits non-zero.
func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), notify.MessageOf(err))
	return err
}
