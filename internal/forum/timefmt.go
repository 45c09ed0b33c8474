package forum

import (
	"fmt"
	"time"

	"clump-cli/internal/model"
)

// FormatCommentTime renders how long ago ts was, relative to now:
// "just now", "N minute(s) ago", "N hour(s) ago" or "N day(s) ago".
// A zero ts (no timestamp) and timestamps in the future read "just now".
func FormatCommentTime(ts, now time.Time) string {
	if ts.IsZero() {
		return "just now"
	}
	ms := now.Sub(ts).Milliseconds()
	mins := ms / 60_000
	hours := ms / 3_600_000
	days := ms / 86_400_000

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return plural(mins, "minute")
	case hours < 24:
		return plural(hours, "hour")
	default:
		return plural(days, "day")
	}
}

// CommentTime formats c's posted timestamp; unparseable or missing
// timestamps read "just now".
func CommentTime(c model.Comment, now time.Time) string {
	ts, ok := c.PostedTime()
	if !ok {
		return "just now"
	}
	return FormatCommentTime(ts, now)
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s ago", n, unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
