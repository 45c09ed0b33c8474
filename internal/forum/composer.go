package forum

import (
	"errors"
	"strings"
)

// ErrEmptyText is returned for blank comment or reply text. It is raised
// before any request is made.
var ErrEmptyText = errors.New("text is empty")

type ComposerState int

const (
	ComposerHidden ComposerState = iota
	ComposerComposing
)

func (s ComposerState) String() string {
	if s == ComposerComposing {
		return "composing"
	}
	return "hidden"
}

// Composer is the inline reply box. One composer is open at a time; its
// Target is the comment being replied to. While it is open, the target row's
// reply/delete actions are hidden.
type Composer struct {
	State  ComposerState
	Target int
	Text   string
}

// Toggle is the "Reply" action on comment id. It opens an empty composer,
// closes it if it is already open on id, and moves it (cleared) when open
// on another comment.
func (c Composer) Toggle(id int) Composer {
	if c.State == ComposerComposing && c.Target == id {
		return Composer{}
	}
	return Composer{State: ComposerComposing, Target: id}
}

// Cancel discards the composer without any request.
func (c Composer) Cancel() Composer {
	return Composer{}
}

// Open reports whether the composer is open on comment id.
func (c Composer) Open(id int) bool {
	return c.State == ComposerComposing && c.Target == id
}

// Submission validates the composer's text. On blank text the composer stays
// open and ErrEmptyText is returned.
func (c Composer) Submission() (int, string, error) {
	text := strings.TrimSpace(c.Text)
	if c.State != ComposerComposing || text == "" {
		return c.Target, "", ErrEmptyText
	}
	return c.Target, text, nil
}
