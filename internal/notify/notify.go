// Package notify turns failed user actions into user-facing messages.
//
// Every failure path is logged first and then surfaced: the TUI shows a
// flash banner, the CLI prints to stderr. Nothing is retried or rolled back.
package notify

import (
	"errors"
	"log/slog"
	"time"

	"clump-cli/internal/api"
)

// FlashDuration is how long a flash banner stays up.
const FlashDuration = 5 * time.Second

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Flash is a transient banner message.
type Flash struct {
	Kind Kind
	Text string
}

func Error(text string) Flash   { return Flash{Kind: KindError, Text: text} }
func Success(text string) Flash { return Flash{Kind: KindSuccess, Text: text} }

// Failure is a failed user action. Error() is the text to show the user;
// the underlying cause stays reachable through errors.As/Unwrap.
type Failure struct {
	Op      string
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Fail logs err for op and returns a Failure carrying the server's message,
// or fallback when the server sent none.
func Fail(log *slog.Logger, op string, err error, fallback string) error {
	if err == nil {
		return nil
	}
	if log != nil {
		log.Error(op+" failed", "err", err)
	}
	return &Failure{Op: op, Message: api.Message(err, fallback), Err: err}
}

// Reject is a local validation failure: nothing was sent, nothing is logged.
func Reject(op, message string, cause error) error {
	return &Failure{Op: op, Message: message, Err: cause}
}

// MessageOf returns the user-facing text for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
