// Package forum loads and renders the threaded comment forum of an event.
//
// Every load rebuilds the whole thread from the server's flat comment list;
// every successful mutation (comment, reply, delete) is followed by a full
// reload rather than patching the thread in place.
package forum

import (
	"context"
	"log/slog"
	"strings"

	"clump-cli/internal/logging"
	"clump-cli/internal/model"
	"clump-cli/internal/notify"
)

// Messages shown to users.
const (
	EmptyPlaceholder = "No comments yet. Be the first to share your thoughts!"
	LoadFailed       = "Failed to load comments."
	LoginToComment   = "Log in to join the conversation."

	EmptyReply   = "Please enter a reply"
	EmptyComment = "Please enter a comment"
)

// Client is the subset of the API the forum needs.
type Client interface {
	Forum(ctx context.Context, eventID int) (model.Forum, error)
	PostComment(ctx context.Context, eventID int, text string) (model.Result, error)
	PostReply(ctx context.Context, parentID int, text string) (model.Result, error)
	DeleteComment(ctx context.Context, commentID int) (model.Result, error)
}

// Thread is one rendered load of an event's forum.
type Thread struct {
	EventID  int
	LoggedIn bool
	Viewer   model.Viewer
	Count    int
	Rows     []Row
}

// Empty reports whether the placeholder should be shown.
func (t Thread) Empty() bool { return len(t.Rows) == 0 }

// CanComment reports whether the top-level comment form is shown.
func (t Thread) CanComment() bool { return t.LoggedIn }

// CanReply reports whether rows get a Reply action.
func (t Thread) CanReply() bool { return t.LoggedIn }

// CanDelete reports whether the viewer may delete the comment in r.
func (t Thread) CanDelete(r Row) bool {
	return t.Viewer.Authored(r.Comment)
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

// Load fetches and rebuilds the thread of eventID. loggedIn decides whether
// reply and comment affordances are offered.
func (c *Controller) Load(ctx context.Context, eventID int, loggedIn bool) (Thread, error) {
	return c.load(ctx, eventID, &loggedIn)
}

// LoadForViewer is Load for callers without their own login flag: the
// forum response's logged_in decides.
func (c *Controller) LoadForViewer(ctx context.Context, eventID int) (Thread, error) {
	return c.load(ctx, eventID, nil)
}

func (c *Controller) load(ctx context.Context, eventID int, loggedIn *bool) (Thread, error) {
	f, err := c.client.Forum(ctx, eventID)
	if err != nil {
		th := Thread{EventID: eventID}
		if loggedIn != nil {
			th.LoggedIn = *loggedIn
		}
		return th, notify.Fail(c.log, "load comments", err, LoadFailed)
	}
	li := f.LoggedIn
	if loggedIn != nil {
		li = *loggedIn
	}
	rows := ThreadRows(f.Comments)
	count := f.CommentCount
	if count == 0 {
		count = len(f.Comments)
	}
	c.log.Debug("comments loaded", "event", eventID, "count", count)
	return Thread{
		EventID:  eventID,
		LoggedIn: li,
		Viewer:   f.Viewer(),
		Count:    count,
		Rows:     rows,
	}, nil
}

// Comment posts a top-level comment and reloads the thread.
func (c *Controller) Comment(ctx context.Context, eventID int, text string) (Thread, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Thread{}, notify.Reject("post comment", EmptyComment, ErrEmptyText)
	}
	if _, err := c.client.PostComment(ctx, eventID, text); err != nil {
		return Thread{}, notify.Fail(c.log, "post comment", err, "Failed to post comment")
	}
	return c.Load(ctx, eventID, true)
}

// Reply posts the composer's text under its target and reloads the thread.
// Blank text is rejected locally and the composer is left open.
func (c *Controller) Reply(ctx context.Context, eventID int, comp Composer) (Thread, error) {
	parentID, text, err := comp.Submission()
	if err != nil {
		return Thread{}, notify.Reject("post reply", EmptyReply, err)
	}
	if _, err := c.client.PostReply(ctx, parentID, text); err != nil {
		return Thread{}, notify.Fail(c.log, "post reply", err, "Failed to post reply")
	}
	return c.Load(ctx, eventID, true)
}

// Delete removes a comment and reloads the thread. Callers confirm first.
func (c *Controller) Delete(ctx context.Context, eventID, commentID int) (Thread, error) {
	if _, err := c.client.DeleteComment(ctx, commentID); err != nil {
		return Thread{}, notify.Fail(c.log, "delete comment", err, "Failed to delete comment")
	}
	return c.Load(ctx, eventID, true)
}
