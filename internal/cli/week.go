package cli

import (
	"time"

	"clump-cli/internal/calendar"
	"clump-cli/internal/model"

	"github.com/spf13/cobra"
)

type weekOut struct {
	Start  string            `json:"start" yaml:"start"`
	End    string            `json:"end" yaml:"end"`
	Events []model.WeekEvent `json:"events" yaml:"events"`
}

func newWeekCmd(app *App) *cobra.Command {
	var grid, ical bool
	var colWidth int

	cmd := &cobra.Command{
		Use:   "week [YYYY-MM-DD]",
		Short: "List the events of the week (Sunday to Saturday) containing a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			now := app.Now()
			date := now
			if len(args) == 1 {
				d, err := calendar.ParseDay(args[0], time.Local)
				if err != nil {
					return writeErr(cmd, err)
				}
				date = d
			}
			week := calendar.WeekOf(date)
			events, err := app.client.Week(cmd.Context(), week.Start, week.End)
			if err != nil {
				app.log.Error("load week failed", "start", week.Start.Format(time.DateOnly), "err", err)
				return writeErr(cmd, err)
			}
			g := calendar.NewGrid(week, events, now)
			if grid {
				return calendar.WriteText(cmd.OutOrStdout(), g, colWidth)
			}
			if ical {
				return calendar.WriteICal(cmd.OutOrStdout(), g, calendar.ICal{
					Name:    "clump " + week.Label(),
					BaseURL: app.cfg.Server.URL,
					Stamp:   now,
				})
			}
			out := weekOut{
				Start:  week.Start.Format(time.DateOnly),
				End:    week.End.Format(time.DateOnly),
				Events: g.Events(),
			}
			if out.Events == nil {
				out.Events = []model.WeekEvent{}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().BoolVar(&grid, "grid", false, "Print a fixed-width week grid instead of structured output")
	cmd.Flags().BoolVar(&ical, "ical", false, "Print the week as an iCalendar feed")
	cmd.MarkFlagsMutuallyExclusive("grid", "ical")
	cmd.Flags().IntVar(&colWidth, "col-width", 14, "Column width for --grid")
	return cmd
}
