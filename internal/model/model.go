package model

import (
	"strings"
	"time"
)

// Participant is one attendee listed in the event panel.
type Participant struct {
	UID      int    `json:"uid" yaml:"uid"`
	Name     string `json:"name" yaml:"name"`
	Pronouns string `json:"pronouns" yaml:"pronouns"`
	Year     int    `json:"year" yaml:"year"`
}

// Event is the detail payload of GET /api/event/{id}. Date and times arrive
// pre-formatted by the server.
type Event struct {
	ID                  int           `json:"eid" yaml:"eid"`
	Title               string        `json:"title" yaml:"title"`
	Date                string        `json:"date" yaml:"date"`
	Start               string        `json:"start" yaml:"start"`
	End                 string        `json:"end" yaml:"end"`
	Description         string        `json:"desc" yaml:"desc"`
	City                string        `json:"city" yaml:"city"`
	State               string        `json:"state" yaml:"state"`
	Category            string        `json:"category" yaml:"category"`
	CreatorName         string        `json:"creator_name" yaml:"creator_name"`
	CreatorUID          int           `json:"addedBy" yaml:"addedBy"`
	Capacity            int           `json:"cap" yaml:"cap"`
	CurrentParticipants int           `json:"current_participants" yaml:"current_participants"`
	Flexible            bool          `json:"flexible" yaml:"flexible"`
	Participants        []Participant `json:"participants" yaml:"participants"`

	// Viewer flags, computed by the server for the requesting session.
	LoggedIn       bool `json:"logged_in" yaml:"logged_in"`
	IsCreator      bool `json:"is_creator" yaml:"is_creator"`
	IsParticipant  bool `json:"is_participant" yaml:"is_participant"`
	EventHasPassed bool `json:"event_has_passed" yaml:"event_has_passed"`
}

// Full reports whether the event has no free spots left.
func (e Event) Full() bool {
	return e.CurrentParticipants >= e.Capacity
}

// Comment is one forum entry. ParentID is nil for top-level comments.
type Comment struct {
	ID         int     `json:"commId" yaml:"commId"`
	Text       string  `json:"text" yaml:"text"`
	AuthorName string  `json:"author_name" yaml:"author_name"`
	AuthorUID  int     `json:"author_uid" yaml:"author_uid"`
	PostedAt   *string `json:"postedAt" yaml:"postedAt"`
	ParentID   *int    `json:"parent_commId,omitempty" yaml:"parent_commId,omitempty"`
}

var postedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// PostedTime parses PostedAt. Timestamps without a zone are read as local time,
// which is how the server writes them.
func (c Comment) PostedTime() (time.Time, bool) {
	if c.PostedAt == nil {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(*c.PostedAt)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range postedLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Forum is the payload of GET /api/event/{id}/forum.
type Forum struct {
	ForumID      int       `json:"fid" yaml:"fid"`
	Comments     []Comment `json:"comments" yaml:"comments"`
	CommentCount int       `json:"comment_count" yaml:"comment_count"`
	CurrentUID   *int      `json:"current_uid" yaml:"current_uid"`
	LoggedIn     bool      `json:"logged_in" yaml:"logged_in"`
}

// Viewer is the identity of the requesting session as seen in one response.
type Viewer struct {
	UID      *int
	LoggedIn bool
}

func (f Forum) Viewer() Viewer {
	return Viewer{UID: f.CurrentUID, LoggedIn: f.LoggedIn}
}

// Authored reports whether the viewer wrote c.
func (v Viewer) Authored(c Comment) bool {
	return v.UID != nil && *v.UID == c.AuthorUID
}

// WeekEvent is one block on the week grid.
type WeekEvent struct {
	ID       int    `json:"eid" yaml:"eid"`
	Title    string `json:"title" yaml:"title"`
	Date     string `json:"date" yaml:"date"` // YYYY-MM-DD
	Start    string `json:"start" yaml:"start"`
	End      string `json:"end" yaml:"end"`
	Category string `json:"category" yaml:"category"`
	City     string `json:"city" yaml:"city"`
	State    string `json:"state" yaml:"state"`
	Capacity int    `json:"cap" yaml:"cap"`
}

// Week is the payload of GET /api/events.
type Week struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Events  []WeekEvent `json:"events"`
}

// Result is the common envelope of mutating endpoints.
type Result struct {
	Success   bool   `json:"success" yaml:"success"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	CommentID int    `json:"commId,omitempty" yaml:"commId,omitempty"`
}
