package cli

import (
	"errors"

	"clump-cli/internal/confirm"
	"clump-cli/internal/forum"
	"clump-cli/internal/model"
	"clump-cli/internal/store"

	"github.com/spf13/cobra"
)

type commentOut struct {
	model.Comment `yaml:",inline"`
	Depth         int    `json:"depth" yaml:"depth"`
	Replies       int    `json:"replies" yaml:"replies"`
	Posted        string `json:"posted" yaml:"posted"`
	CanDelete     bool   `json:"can_delete" yaml:"can_delete"`
}

type threadOut struct {
	EventID  int          `json:"eid" yaml:"eid"`
	Count    int          `json:"comment_count" yaml:"comment_count"`
	LoggedIn bool         `json:"logged_in" yaml:"logged_in"`
	Comments []commentOut `json:"comments" yaml:"comments"`
}

func threadToOut(app *App, th forum.Thread) threadOut {
	now := app.Now()
	out := threadOut{EventID: th.EventID, Count: th.Count, LoggedIn: th.LoggedIn, Comments: []commentOut{}}
	for _, r := range th.Rows {
		out.Comments = append(out.Comments, commentOut{
			Comment:   r.Comment,
			Depth:     r.Depth,
			Replies:   r.Replies,
			Posted:    forum.CommentTime(r.Comment, now),
			CanDelete: th.CanDelete(r),
		})
	}
	return out
}

func newForumCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forum",
		Short: "Event forum commands",
	}
	cmd.AddCommand(newForumShowCmd(app))
	cmd.AddCommand(newForumCommentCmd(app))
	cmd.AddCommand(newForumReplyCmd(app))
	cmd.AddCommand(newForumDeleteCmd(app))
	return cmd
}

func newForumShowCmd(app *App) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show an event's comments, replies nested under their parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			th, err := forum.NewController(app.client, app.log).LoadForViewer(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, notFoundOr(err, "forum", id))
			}
			if tree {
				return forum.RenderText(cmd.OutOrStdout(), th, app.Now())
			}
			return writeOut(cmd, app, threadToOut(app, th))
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "Print an indented text tree instead of structured output")
	return cmd
}

func newForumCommentCmd(app *App) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "comment <event-id>",
		Short: "Post a top-level comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			th, err := forum.NewController(app.client, app.log).Comment(cmd.Context(), id, text)
			if !errors.Is(err, forum.ErrEmptyText) {
				record(cmd, app, store.ActionFrom(store.OpComment, id, 0, err, ""))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, threadToOut(app, th))
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Comment text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newForumReplyCmd(app *App) *cobra.Command {
	var text string
	var eventArg string

	cmd := &cobra.Command{
		Use:   "reply <comment-id>",
		Short: "Reply to a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseID("comment", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			eventID, err := parseID("event", eventArg)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			comp := forum.Composer{}.Toggle(parentID)
			comp.Text = text
			th, err := forum.NewController(app.client, app.log).Reply(cmd.Context(), eventID, comp)
			if !errors.Is(err, forum.ErrEmptyText) {
				record(cmd, app, store.ActionFrom(store.OpReply, eventID, parentID, err, ""))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, threadToOut(app, th))
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Reply text")
	cmd.Flags().StringVar(&eventArg, "event", "", "Event the comment belongs to (for the reload)")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func newForumDeleteCmd(app *App) *cobra.Command {
	var eventArg string

	cmd := &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete one of your comments (asks first unless --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commentID, err := parseID("comment", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			eventID, err := parseID("event", eventArg)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setup(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			ctrl := forum.NewController(app.client, app.log)
			var th forum.Thread
			err = confirm.Run(prompter(cmd, app), confirm.DeleteComment(), func() error {
				var err error
				th, err = ctrl.Delete(cmd.Context(), eventID, commentID)
				record(cmd, app, store.ActionFrom(store.OpDeleteComment, eventID, commentID, err, ""))
				return err
			})
			if err != nil {
				return writeErr(cmd, notFoundOr(err, "comment", commentID))
			}
			return writeOut(cmd, app, threadToOut(app, th))
		},
	}

	cmd.Flags().StringVar(&eventArg, "event", "", "Event the comment belongs to (for the reload)")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}
