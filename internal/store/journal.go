package store

import (
	"context"
	"errors"
	"time"

	"clump-cli/internal/notify"
)

// Journal ops.
const (
	OpJoin          = "join"
	OpLeave         = "leave"
	OpDeleteEvent   = "delete_event"
	OpComment       = "comment"
	OpReply         = "reply"
	OpDeleteComment = "delete_comment"
)

// Action is one journal entry: what was attempted and how it ended.
type Action struct {
	ID        int64     `json:"id" yaml:"id"`
	At        time.Time `json:"at" yaml:"at"`
	Op        string    `json:"op" yaml:"op"`
	EventID   int       `json:"eid" yaml:"eid"`
	CommentID int       `json:"commId,omitempty" yaml:"commId,omitempty"`
	OK        bool      `json:"ok" yaml:"ok"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// ActionFrom builds an entry from an action's outcome. A nil err is a
// success carrying notice.
func ActionFrom(op string, eventID, commentID int, err error, notice string) Action {
	a := Action{Op: op, EventID: eventID, CommentID: commentID, OK: err == nil, Message: notice}
	if err != nil {
		a.Message = notify.MessageOf(err)
	}
	return a
}

// Record appends a to the journal. A nil Store records nothing.
func (s *Store) Record(ctx context.Context, a Action) error {
	if s == nil {
		return nil
	}
	if a.Op == "" {
		return errors.New("empty journal op")
	}
	at := a.At
	if at.IsZero() {
		at = s.now()
	}
	ok := 0
	if a.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actions(at_unixms, op, event_id, comment_id, ok, message) VALUES(?, ?, ?, ?, ?, ?)`,
		at.UnixMilli(), a.Op, a.EventID, a.CommentID, ok, a.Message,
	)
	return err
}

// Recent returns up to limit entries, newest first. A positive eventID
// restricts them to that event.
func (s *Store) Recent(ctx context.Context, limit, eventID int) ([]Action, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id, at_unixms, op, event_id, comment_id, ok, message FROM actions`
	args := []any{}
	if eventID > 0 {
		q += ` WHERE event_id = ?`
		args = append(args, eventID)
	}
	q += ` ORDER BY at_unixms DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Action{}
	for rows.Next() {
		var a Action
		var atMS int64
		var ok int
		if err := rows.Scan(&a.ID, &atMS, &a.Op, &a.EventID, &a.CommentID, &ok, &a.Message); err != nil {
			return nil, err
		}
		a.At = time.UnixMilli(atMS)
		a.OK = ok != 0
		out = append(out, a)
	}
	return out, rows.Err()
}
