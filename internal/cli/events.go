package cli

import (
	"clump-cli/internal/confirm"
	"clump-cli/internal/model"
	"clump-cli/internal/notify"
	"clump-cli/internal/panel"
	"clump-cli/internal/store"

	"github.com/spf13/cobra"
)

type eventOut struct {
	Event    model.Event `json:"event" yaml:"event"`
	Actions  string      `json:"actions" yaml:"actions"`
	Buttons  []string    `json:"buttons,omitempty" yaml:"buttons,omitempty"`
	Status   string      `json:"status,omitempty" yaml:"status,omitempty"`
	Capacity string      `json:"capacity" yaml:"capacity"`
	EditURL  string      `json:"edit_url,omitempty" yaml:"edit_url,omitempty"`
	Notice   string      `json:"message,omitempty" yaml:"message,omitempty"`

	// ReloadError is set when the action went through but the refreshed
	// event could not be fetched.
	ReloadError string `json:"reload_error,omitempty" yaml:"reload_error,omitempty"`
}

func viewOut(app *App, v panel.View) eventOut {
	if v.Loading {
		// Only the action's outcome is known.
		out := eventOut{Actions: "unknown", Notice: v.Notice, ReloadError: notify.MessageOf(v.ReloadErr)}
		out.Event.ID = v.EventID
		app.log.Warn("event changed but reload failed", "event", v.EventID, "err", v.ReloadErr)
		return out
	}
	out := eventOut{
		Event:    v.Event,
		Actions:  v.Actions.String(),
		Buttons:  v.Actions.Buttons(),
		Status:   v.Actions.Message(),
		Capacity: v.Capacity(),
		Notice:   v.Notice,
	}
	if v.Actions == panel.ActionManage {
		out.EditURL = panel.EditURL(app.client.BaseURL(), v.EventID)
	}
	return out
}

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Event commands",
	}
	cmd.AddCommand(newEventsShowCmd(app))
	cmd.AddCommand(newEventsJoinCmd(app))
	cmd.AddCommand(newEventsLeaveCmd(app))
	cmd.AddCommand(newEventsDeleteCmd(app))
	return cmd
}

func newEventsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show an event with the actions available to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			v, err := panel.NewController(app.client, app.log).Open(cmd.Context(), panel.View{}, id)
			if err != nil {
				return writeErr(cmd, notFoundOr(err, "event", id))
			}
			return writeOut(cmd, app, viewOut(app, v))
		},
	}
}

func newEventsJoinCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "join <event-id>",
		Short: "Join an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			v, err := panel.NewController(app.client, app.log).Join(cmd.Context(), panel.View{}, id)
			record(cmd, app, store.ActionFrom(store.OpJoin, id, 0, err, v.Notice))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, viewOut(app, v))
		},
	}
}

func newEventsLeaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <event-id>",
		Short: "Leave an event (asks first unless --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			ctrl := panel.NewController(app.client, app.log)
			var v panel.View
			err = confirm.Run(prompter(cmd, app), confirm.LeaveEvent(), func() error {
				var err error
				v, err = ctrl.Leave(cmd.Context(), panel.View{}, id)
				record(cmd, app, store.ActionFrom(store.OpLeave, id, 0, err, v.Notice))
				return err
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, viewOut(app, v))
		},
	}
}

func newEventsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event you created (asks first unless --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			ctrl := panel.NewController(app.client, app.log)
			var v panel.View
			err = confirm.Run(prompter(cmd, app), confirm.DeleteEvent(), func() error {
				var err error
				v, err = ctrl.Delete(cmd.Context(), panel.View{}, id)
				record(cmd, app, store.ActionFrom(store.OpDeleteEvent, id, 0, err, v.Notice))
				return err
			})
			if err != nil {
				return writeErr(cmd, notFoundOr(err, "event", id))
			}
			return writeOut(cmd, app, map[string]any{
				"success": true,
				"eid":     id,
				"message": v.Notice,
			})
		},
	}
}
