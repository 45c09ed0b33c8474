package api

import (
	"context"
	"fmt"
	"net/http"

	"clump-cli/internal/model"
)

type textBody struct {
	Text string `json:"text"`
}

// Forum fetches the flat comment list of an event's forum.
func (c *Client) Forum(ctx context.Context, eventID int) (model.Forum, error) {
	if err := checkID("event", eventID); err != nil {
		return model.Forum{}, err
	}
	var f model.Forum
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/event/%d/forum", eventID), nil, &f)
	return f, err
}

// PostComment adds a top-level comment to an event's forum.
func (c *Client) PostComment(ctx context.Context, eventID int, text string) (model.Result, error) {
	return c.mutate(ctx, http.MethodPost, "event", eventID, "/api/event/%d/forum/comment", textBody{Text: text})
}

// PostReply adds a reply under parentID.
func (c *Client) PostReply(ctx context.Context, parentID int, text string) (model.Result, error) {
	return c.mutate(ctx, http.MethodPost, "comment", parentID, "/api/comment/%d/reply", textBody{Text: text})
}

func (c *Client) DeleteComment(ctx context.Context, commentID int) (model.Result, error) {
	return c.mutate(ctx, http.MethodDelete, "comment", commentID, "/api/comment/%d/delete", nil)
}
