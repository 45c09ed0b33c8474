package cli

import (
	"errors"

	"clump-cli/internal/config"
	"clump-cli/internal/store"

	"github.com/spf13/cobra"
)

var errStateDisabled = errors.New("the local journal is disabled (state.disabled in config.yaml)")

type historyOut struct {
	Path    string         `json:"path" yaml:"path"`
	Actions []store.Action `json:"actions" yaml:"actions"`
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var eventArg string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the actions taken from this machine, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The journal is local; no server is needed to read it.
			if err := loadConfig(app); err != nil && !errors.Is(err, config.ErrMissingServer) {
				return writeErr(cmd, err)
			}
			stderrLogger(cmd, app)
			eventID := 0
			if eventArg != "" {
				id, err := parseID("event", eventArg)
				if err != nil {
					return writeErr(cmd, err)
				}
				eventID = id
			}
			if app.cfg.State.Disabled {
				return writeErr(cmd, errStateDisabled)
			}
			path, err := app.cfg.StateFile()
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := store.Open(cmd.Context(), path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			actions, err := st.Recent(cmd.Context(), limit, eventID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, historyOut{Path: path, Actions: actions})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries")
	cmd.Flags().StringVar(&eventArg, "event", "", "Only entries for this event")
	return cmd
}
