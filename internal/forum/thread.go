package forum

import "clump-cli/internal/model"

// Forest groups comments by parent id. Sibling groups keep the order the
// server sent them in; nothing is re-sorted.
type Forest struct {
	all      []model.Comment
	roots    []model.Comment
	children map[int][]model.Comment
}

// Row is one comment in depth-first display order. Depth is the length of
// the parent chain back to a top-level comment.
type Row struct {
	Comment model.Comment
	Depth   int
	// Replies is the number of direct children.
	Replies int
}

// BuildForest groups comments by parent. A comment whose parent is not in the
// list (deleted, or omitted by the server) is treated as top-level so it
// still renders.
func BuildForest(comments []model.Comment) Forest {
	present := make(map[int]bool, len(comments))
	for _, c := range comments {
		present[c.ID] = true
	}

	f := Forest{all: comments, children: map[int][]model.Comment{}}
	for _, c := range comments {
		if c.ParentID == nil || !present[*c.ParentID] || *c.ParentID == c.ID {
			f.roots = append(f.roots, c)
			continue
		}
		f.children[*c.ParentID] = append(f.children[*c.ParentID], c)
	}
	return f
}

// Roots returns the top-level comments.
func (f Forest) Roots() []model.Comment { return f.roots }

// Children returns the direct replies to id.
func (f Forest) Children(id int) []model.Comment { return f.children[id] }

// Rows walks the forest depth-first, parents before children, siblings in
// source order. The walk uses an explicit stack, so thread depth is bounded
// only by memory. Comments caught in a parent cycle (which the server should
// never send) are not reachable from a root; they are appended at depth 0.
func (f Forest) Rows() []Row {
	type frame struct {
		c     model.Comment
		depth int
	}

	out := make([]Row, 0, len(f.all))
	seen := make(map[int]bool, len(f.all))
	var stack []frame
	walk := func(root model.Comment) {
		stack = append(stack[:0], frame{c: root})
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[top.c.ID] {
				continue
			}
			seen[top.c.ID] = true

			kids := f.children[top.c.ID]
			out = append(out, Row{Comment: top.c, Depth: top.depth, Replies: len(kids)})
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, frame{c: kids[i], depth: top.depth + 1})
			}
		}
	}

	for _, r := range f.roots {
		walk(r)
	}
	for _, c := range f.all {
		if !seen[c.ID] {
			walk(c)
		}
	}
	return out
}

// ThreadRows is BuildForest followed by Rows.
func ThreadRows(comments []model.Comment) []Row {
	return BuildForest(comments).Rows()
}

// IndexOf returns the row index of comment id, or -1.
func IndexOf(rows []Row, id int) int {
	for i := range rows {
		if rows[i].Comment.ID == id {
			return i
		}
	}
	return -1
}
