package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"clump-cli/internal/model"
)

// Week lists the events dated within [start, end] (inclusive, by day).
func (c *Client) Week(ctx context.Context, start, end time.Time) ([]model.WeekEvent, error) {
	q := url.Values{}
	q.Set("start", start.Format(time.DateOnly))
	q.Set("end", end.Format(time.DateOnly))
	path := "/api/events?" + q.Encode()

	var out model.Week
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &AppError{Op: http.MethodGet + " " + path, Message: out.Error}
	}
	return out.Events, nil
}

// Event fetches one event with the viewer flags for this session.
func (c *Client) Event(ctx context.Context, eventID int) (model.Event, error) {
	if err := checkID("event", eventID); err != nil {
		return model.Event{}, err
	}
	var ev model.Event
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/event/%d", eventID), nil, &ev)
	return ev, err
}

func (c *Client) JoinEvent(ctx context.Context, eventID int) (model.Result, error) {
	return c.mutate(ctx, http.MethodPost, "event", eventID, "/api/event/%d/join", nil)
}

func (c *Client) LeaveEvent(ctx context.Context, eventID int) (model.Result, error) {
	return c.mutate(ctx, http.MethodPost, "event", eventID, "/api/event/%d/leave", nil)
}

func (c *Client) DeleteEvent(ctx context.Context, eventID int) (model.Result, error) {
	return c.mutate(ctx, http.MethodDelete, "event", eventID, "/api/event/%d/delete", nil)
}

// mutate sends a state-changing request and requires success:true.
func (c *Client) mutate(ctx context.Context, method, kind string, id int, pathFmt string, in any) (model.Result, error) {
	if err := checkID(kind, id); err != nil {
		return model.Result{}, err
	}
	path := fmt.Sprintf(pathFmt, id)
	var res model.Result
	if err := c.do(ctx, method, path, in, &res); err != nil {
		return res, err
	}
	return res, envelope(method+" "+path, res.Success, res.Error)
}
