package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const tuiStateKey = "tui_state"

// TUIState is the small bit of UI state restored on relaunch. It is best
// effort: a missing or unreadable value loads as the zero state.
type TUIState struct {
	Version int `json:"version"`
	// Week is the Sunday the grid showed, YYYY-MM-DD.
	Week string `json:"week,omitempty"`
	// OpenEventID is the event whose panel was open, if any.
	OpenEventID int `json:"openEventId,omitempty"`
}

// WeekStart parses Week in loc.
func (st TUIState) WeekStart(loc *time.Location) (time.Time, bool) {
	if st.Week == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(time.DateOnly, st.Week, loc)
	return t, err == nil
}

func (s *Store) LoadTUIState(ctx context.Context) (TUIState, error) {
	if s == nil {
		return TUIState{Version: 1}, nil
	}
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, tuiStateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return TUIState{Version: 1}, nil
	}
	if err != nil {
		return TUIState{Version: 1}, err
	}
	var st TUIState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		// Corrupted state reads as missing.
		return TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return st, nil
}

func (s *Store) SaveTUIState(ctx context.Context, st TUIState) error {
	if s == nil {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, tuiStateKey, string(b))
	return err
}
