package forum

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// RenderText writes the thread as an indented plain-text tree, two spaces per
// level. It is used by `clump forum show --tree`.
func RenderText(w io.Writer, t Thread, now time.Time) error {
	if _, err := fmt.Fprintf(w, "Comments (%d)\n", t.Count); err != nil {
		return err
	}
	if t.Empty() {
		_, err := fmt.Fprintln(w, EmptyPlaceholder)
		return err
	}
	for _, r := range t.Rows {
		indent := strings.Repeat("  ", r.Depth)
		marker := ""
		if r.Depth > 0 {
			marker = "↳ "
		}
		var tags []string
		if t.CanReply() {
			tags = append(tags, "reply")
		}
		if t.CanDelete(r) {
			tags = append(tags, "delete")
		}
		meta := fmt.Sprintf("%s%s%s · %s  #%d", indent, marker, r.Comment.AuthorName, CommentTime(r.Comment, now), r.Comment.ID)
		if len(tags) > 0 {
			meta += "  [" + strings.Join(tags, ", ") + "]"
		}
		if _, err := fmt.Fprintln(w, meta); err != nil {
			return err
		}
		body := indent + strings.Repeat(" ", len(marker))
		for _, line := range strings.Split(strings.TrimRight(r.Comment.Text, "\n"), "\n") {
			if _, err := fmt.Fprintln(w, body+line); err != nil {
				return err
			}
		}
	}
	if !t.CanComment() {
		_, err := fmt.Fprintln(w, LoginToComment)
		return err
	}
	return nil
}
