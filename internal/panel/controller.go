// Package panel drives the slide-in event detail panel: opening and closing
// it, choosing which actions it offers, and the join, leave and delete
// actions. It holds no state between calls; the open event id is passed in.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clump-cli/internal/logging"
	"clump-cli/internal/model"
	"clump-cli/internal/notify"
)

const (
	LoadingTitle   = "Loading..."
	NoDescription  = "No description provided."
	NoParticipants = "No participants yet"
	LoadFailed     = "Failed to load event details."
)

// Client is the subset of the API the panel needs.
type Client interface {
	Event(ctx context.Context, eventID int) (model.Event, error)
	JoinEvent(ctx context.Context, eventID int) (model.Result, error)
	LeaveEvent(ctx context.Context, eventID int) (model.Result, error)
	DeleteEvent(ctx context.Context, eventID int) (model.Result, error)
}

// View is one render of the panel. Loading views carry only the event id.
type View struct {
	EventID int
	Open    bool
	// Hidden mirrors the panel's accessibility state; a closed panel is hidden.
	Hidden  bool
	Loading bool
	Event   model.Event
	Actions ActionState
	// ReloadWeek is set after a delete: the week grid still shows the event.
	ReloadWeek bool
	// Notice is the server's success message for the last action, if any.
	Notice string
	// ReloadErr is set when join or leave went through but re-opening the
	// event failed; the view is then the loading view.
	ReloadErr error
}

// Title is the panel heading.
func (v View) Title() string {
	if v.Loading {
		return LoadingTitle
	}
	return v.Event.Title
}

// When is "start - end".
func (v View) When() string {
	return v.Event.Start + " - " + v.Event.End
}

// Where is "city, state".
func (v View) Where() string {
	return v.Event.City + ", " + v.Event.State
}

func (v View) Description() string {
	if strings.TrimSpace(v.Event.Description) == "" {
		return NoDescription
	}
	return v.Event.Description
}

// Capacity is "N/M spots filled".
func (v View) Capacity() string {
	return fmt.Sprintf("%d/%d spots filled", v.Event.CurrentParticipants, v.Event.Capacity)
}

// ParticipantLines lists participants as "name (pronouns) - Class of year",
// or the empty placeholder.
func (v View) ParticipantLines() []string {
	if len(v.Event.Participants) == 0 {
		return []string{NoParticipants}
	}
	out := make([]string, 0, len(v.Event.Participants))
	for _, p := range v.Event.Participants {
		out = append(out, ParticipantLine(p))
	}
	return out
}

func ParticipantLine(p model.Participant) string {
	return fmt.Sprintf("%s (%s) - Class of %d", p.Name, p.Pronouns, p.Year)
}

type Controller struct {
	client Client
	log    *slog.Logger
}

func NewController(client Client, log *slog.Logger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{client: client, log: log}
}

// Loading is the view shown while eventID is being fetched. Whatever the
// previous open event showed is dropped; only the open state carries over.
func Loading(prev View, eventID int) View {
	return View{EventID: eventID, Open: prev.Open, Hidden: prev.Hidden, Loading: true}
}

// Open fetches eventID and returns a fully populated, visible view. On
// failure it returns the loading view and the user-facing error.
func (c *Controller) Open(ctx context.Context, prev View, eventID int) (View, error) {
	loading := Loading(prev, eventID)
	ev, err := c.client.Event(ctx, eventID)
	if err != nil {
		return loading, notify.Fail(c.log, "open event", err, LoadFailed)
	}
	c.log.Debug("event opened", "event", eventID, "actions", Actions(ev).String())
	return View{
		EventID: eventID,
		Open:    true,
		Event:   ev,
		Actions: Actions(ev),
	}, nil
}

// Close hides the panel and abandons a pending load. Closing a closed panel
// is a no-op.
func Close(v View) View {
	v.Open = false
	v.Hidden = true
	v.Loading = false
	return v
}

// Join joins eventID and re-opens the panel so counts and actions refresh.
// The error is the join's own; see View.ReloadErr.
func (c *Controller) Join(ctx context.Context, v View, eventID int) (View, error) {
	res, err := c.client.JoinEvent(ctx, eventID)
	if err != nil {
		return v, notify.Fail(c.log, "join event", err, "Failed to join event")
	}
	return c.reopen(ctx, v, eventID, res.Message)
}

// Leave leaves eventID and re-opens the panel. Callers confirm first.
func (c *Controller) Leave(ctx context.Context, v View, eventID int) (View, error) {
	res, err := c.client.LeaveEvent(ctx, eventID)
	if err != nil {
		return v, notify.Fail(c.log, "leave event", err, "Failed to leave event")
	}
	return c.reopen(ctx, v, eventID, res.Message)
}

// Delete deletes eventID and closes the panel; the returned view asks for
// the week grid to be reloaded. Callers confirm first.
func (c *Controller) Delete(ctx context.Context, v View, eventID int) (View, error) {
	res, err := c.client.DeleteEvent(ctx, eventID)
	if err != nil {
		return v, notify.Fail(c.log, "delete event", err, "Failed to delete event")
	}
	c.log.Info("event deleted", "event", eventID)
	closed := Close(View{EventID: eventID})
	closed.ReloadWeek = true
	closed.Notice = res.Message
	return closed, nil
}

// reopen refreshes the panel after a successful action. A failed refresh
// does not undo the action, so it is reported on the view, not returned.
func (c *Controller) reopen(ctx context.Context, v View, eventID int, notice string) (View, error) {
	next, err := c.Open(ctx, v, eventID)
	next.Notice = notice
	next.ReloadErr = err
	return next, nil
}

// EditURL is the server page that edits eventID.
func EditURL(base string, eventID int) string {
	return strings.TrimRight(base, "/") + fmt.Sprintf("/event/%d/edit", eventID)
}
