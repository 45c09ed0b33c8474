// Package confirm is the one confirmation step in front of destructive
// actions. The TUI renders a Request as a modal; scripted commands prompt on
// the terminal through a Prompter.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDeclined is returned by Run when the user says no.
var ErrDeclined = errors.New("cancelled")

// Request describes what is about to happen.
type Request struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
}

func DeleteEvent() Request {
	return Request{
		Title:        "Delete Event",
		Message:      "Delete this event? This action cannot be undone.",
		ConfirmLabel: "Delete",
		CancelLabel:  "Cancel",
	}
}

func LeaveEvent() Request {
	return Request{
		Title:        "Leave Event",
		Message:      "Are you sure you want to leave this event?",
		ConfirmLabel: "Leave",
		CancelLabel:  "Cancel",
	}
}

func DeleteComment() Request {
	return Request{
		Title:        "Delete Comment",
		Message:      "Delete this comment? This action cannot be undone.",
		ConfirmLabel: "Delete",
		CancelLabel:  "Cancel",
	}
}

// Confirmer asks the user about a Request.
type Confirmer interface {
	Confirm(req Request) (bool, error)
}

// Run asks c about req and calls onConfirm only on a yes.
func Run(c Confirmer, req Request, onConfirm func() error) error {
	ok, err := c.Confirm(req)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return onConfirm()
}

// Prompter asks on a terminal: "Title: Message [y/N] ". Anything but y/yes
// (including end of input) is a no. AssumeYes skips the prompt.
type Prompter struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool
}

func (p Prompter) Confirm(req Request) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	if p.In == nil {
		return false, errors.New("no terminal to confirm on; pass --yes")
	}
	if p.Out != nil {
		if _, err := fmt.Fprintf(p.Out, "%s: %s [y/N] ", req.Title, req.Message); err != nil {
			return false, err
		}
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Always answers every request the same way. Tests use it.
type Always bool

func (a Always) Confirm(Request) (bool, error) { return bool(a), nil }
