// Package apitest runs an in-memory stand-in for the events web application,
// for tests of the client, the controllers, the CLI and the TUI.
//
// It mirrors the server's business rules closely enough to exercise every
// client path: capacity and past-date checks on join, creator-only delete,
// author-only comment delete, and the response envelopes of each endpoint.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"clump-cli/internal/model"
)

// SessionCookie is the cookie name the fake server reads.
const SessionCookie = "session"

// User is a person known to the server.
type User struct {
	UID      int
	Name     string
	Pronouns string
	Year     int
}

// Event is the server-side record of an event.
type Event struct {
	ID          int
	Title       string
	Date        time.Time
	Start       string
	End         string
	Description string
	City        string
	State       string
	Category    string
	CreatorUID  int
	Capacity    int
	// Participants holds uids in join order.
	Participants []int
}

type comment struct {
	model.Comment
	eventID int
}

// Server is a fake events server. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[int]User
	sessions map[string]int
	events   map[int]*Event
	comments []comment
	nextComm int
	calls    []string
	now      func() time.Time

	// OmitParentIDs drops parent_commId from forum payloads, the way older
	// server builds do.
	OmitParentIDs bool
	// failNext is keyed by "METHOD /path"; see FailNext.
	failNext map[string]failure
}

type failure struct {
	code int
	msg  string
}

// New starts a fake server. Call Close when done.
func New() *Server {
	s := &Server{
		users:    map[int]User{},
		sessions: map[string]int{},
		events:   map[int]*Event{},
		nextComm: 1,
		now:      time.Now,
		failNext: map[string]failure{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events", s.handleWeek)
	mux.HandleFunc("GET /api/event/{id}", s.handleEvent)
	mux.HandleFunc("POST /api/event/{id}/join", s.handleJoin)
	mux.HandleFunc("POST /api/event/{id}/leave", s.handleLeave)
	mux.HandleFunc("DELETE /api/event/{id}/delete", s.handleDeleteEvent)
	mux.HandleFunc("GET /api/event/{id}/forum", s.handleForum)
	mux.HandleFunc("POST /api/event/{id}/forum/comment", s.handleComment)
	mux.HandleFunc("POST /api/comment/{id}/reply", s.handleReply)
	mux.HandleFunc("DELETE /api/comment/{id}/delete", s.handleDeleteComment)
	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// SetNow fixes the server clock (used for event_has_passed and postedAt).
func (s *Server) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = func() time.Time { return now }
}

// AddUser registers a user and returns a session cookie value for them.
func (s *Server) AddUser(u User) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UID] = u
	token := "sess-" + strconv.Itoa(u.UID)
	s.sessions[token] = u.UID
	return token
}

func (s *Server) AddEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := e
	cp.Participants = append([]int(nil), e.Participants...)
	s.events[e.ID] = &cp
}

// AddComment stores a comment as if posted by authorUID and returns its id.
// A zero postedAt uses the server clock.
func (s *Server) AddComment(eventID, authorUID int, parentID *int, text string, postedAt time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if postedAt.IsZero() {
		postedAt = s.now()
	}
	return s.insertCommentLocked(eventID, authorUID, parentID, text, postedAt)
}

// Calls returns the "METHOD /path" of every request so far.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// ResetCalls clears the call log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// FailNext makes the next call to "METHOD /path" answer code with msg.
func (s *Server) FailNext(call string, code int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[call] = failure{code: code, msg: msg}
}

// Participants returns the uids joined to an event.
func (s *Server) Participants(eventID int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[eventID]
	if e == nil {
		return nil
	}
	return append([]int(nil), e.Participants...)
}

// CommentCount returns the number of comments stored for an event.
func (s *Server) CommentCount(eventID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.comments {
		if c.eventID == eventID {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.calls = append(s.calls, call)
		f, failing := s.failNext[call]
		if failing {
			delete(s.failNext, call)
		}
		s.mu.Unlock()
		if failing {
			writeJSON(w, f.code, map[string]any{"success": false, "error": f.msg})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) viewerLocked(r *http.Request) (int, bool) {
	ck, err := r.Cookie(SessionCookie)
	if err != nil {
		return 0, false
	}
	uid, ok := s.sessions[ck.Value]
	return uid, ok
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	_, err1 := time.Parse(time.DateOnly, start)
	_, err2 := time.Parse(time.DateOnly, end)
	if err1 != nil || err2 != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid date format"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.WeekEvent{}
	for _, e := range s.events {
		d := e.Date.Format(time.DateOnly)
		if d < start || d > end {
			continue
		}
		out = append(out, model.WeekEvent{
			ID:       e.ID,
			Title:    e.Title,
			Date:     e.Date.Format(time.DateOnly),
			Start:    e.Start,
			End:      e.End,
			Category: e.Category,
			City:     e.City,
			State:    e.State,
			Capacity: e.Capacity,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "events": out})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[id]
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Event not found"})
		return
	}
	uid, loggedIn := s.viewerLocked(r)
	out := model.Event{
		ID:                  e.ID,
		Title:               e.Title,
		Date:                e.Date.Format("Monday, January 02, 2006"),
		Start:               e.Start,
		End:                 e.End,
		Description:         e.Description,
		City:                e.City,
		State:               e.State,
		Category:            e.Category,
		CreatorName:         s.users[e.CreatorUID].Name,
		CreatorUID:          e.CreatorUID,
		Capacity:            e.Capacity,
		CurrentParticipants: len(e.Participants),
		Participants:        []model.Participant{},
		LoggedIn:            loggedIn,
		IsCreator:           loggedIn && uid == e.CreatorUID,
		EventHasPassed:      e.Date.Before(s.today()),
	}
	for _, p := range e.Participants {
		u := s.users[p]
		out.Participants = append(out.Participants, model.Participant{UID: u.UID, Name: u.Name, Pronouns: u.Pronouns, Year: u.Year})
		if loggedIn && p == uid {
			out.IsParticipant = true
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

func (s *Server) mutation(w http.ResponseWriter, r *http.Request, f func(uid, id int) (int, map[string]any)) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.viewerLocked(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Please log in"})
		return
	}
	code, body := f(uid, id)
	writeJSON(w, code, body)
}

func fail(code int, msg string) (int, map[string]any) {
	return code, map[string]any{"success": false, "error": msg}
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	s.mutation(w, r, func(uid, id int) (int, map[string]any) {
		e := s.events[id]
		if e == nil {
			return fail(http.StatusNotFound, "Event not found")
		}
		if e.Date.Before(s.today()) {
			return fail(http.StatusBadRequest, "Cannot join past events")
		}
		for _, p := range e.Participants {
			if p == uid {
				return fail(http.StatusBadRequest, "Already joined")
			}
		}
		if len(e.Participants) >= e.Capacity {
			return fail(http.StatusBadRequest, "Event is full")
		}
		e.Participants = append(e.Participants, uid)
		return http.StatusOK, map[string]any{"success": true, "message": "Successfully joined event"}
	})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	s.mutation(w, r, func(uid, id int) (int, map[string]any) {
		e := s.events[id]
		if e != nil && e.CreatorUID == uid {
			return fail(http.StatusForbidden, "You  cannot leave your own event")
		}
		if e != nil {
			kept := e.Participants[:0]
			for _, p := range e.Participants {
				if p != uid {
					kept = append(kept, p)
				}
			}
			e.Participants = kept
		}
		return http.StatusOK, map[string]any{"success": true, "message": "Successfully left event"}
	})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	s.mutation(w, r, func(uid, id int) (int, map[string]any) {
		e := s.events[id]
		if e == nil {
			return fail(http.StatusNotFound, "Event not found")
		}
		if e.CreatorUID != uid {
			return fail(http.StatusForbidden, "Unauthorized")
		}
		delete(s.events, id)
		return http.StatusOK, map[string]any{"success": true}
	})
}

func (s *Server) handleForum(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events[id] == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Forum not found"})
		return
	}
	uid, loggedIn := s.viewerLocked(r)
	list := []map[string]any{}
	for _, c := range s.comments {
		if c.eventID != id {
			continue
		}
		m := map[string]any{
			"commId":      c.ID,
			"text":        c.Text,
			"author_name": c.AuthorName,
			"author_uid":  c.AuthorUID,
			"postedAt":    c.PostedAt,
		}
		if !s.OmitParentIDs {
			m["parent_commId"] = c.ParentID
		}
		list = append(list, m)
	}
	var current any
	if loggedIn {
		current = uid
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fid":           id,
		"comments":      list,
		"logged_in":     loggedIn,
		"current_uid":   current,
		"comment_count": len(list),
	})
}

func (s *Server) insertCommentLocked(eventID, authorUID int, parentID *int, text string, postedAt time.Time) int {
	id := s.nextComm
	s.nextComm++
	ts := postedAt.Format("2006-01-02T15:04:05")
	var parent *int
	if parentID != nil {
		p := *parentID
		parent = &p
	}
	s.comments = append(s.comments, comment{
		Comment: model.Comment{
			ID:         id,
			Text:       text,
			AuthorName: s.users[authorUID].Name,
			AuthorUID:  authorUID,
			PostedAt:   &ts,
			ParentID:   parent,
		},
		eventID: eventID,
	})
	return id
}

func decodeText(r *http.Request) string {
	var body struct {
		Text string `json:"text"`
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	return strings.TrimSpace(body.Text)
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	text := decodeText(r)
	s.mutation(w, r, func(uid, id int) (int, map[string]any) {
		if text == "" {
			return http.StatusBadRequest, map[string]any{"error": "Comment cannot be empty"}
		}
		if s.events[id] == nil {
			return http.StatusNotFound, map[string]any{"error": "Forum not found"}
		}
		cid := s.insertCommentLocked(id, uid, nil, text, s.now())
		return http.StatusOK, map[string]any{"success": true, "message": "Comment added successfully", "commId": cid}
	})
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) {
	text := decodeText(r)
	s.mutation(w, r, func(uid, parentID int) (int, map[string]any) {
		if text == "" {
			return fail(http.StatusBadRequest, "Reply cannot be empty")
		}
		for _, c := range s.comments {
			if c.ID == parentID {
				pid := parentID
				cid := s.insertCommentLocked(c.eventID, uid, &pid, text, s.now())
				return http.StatusOK, map[string]any{"success": true, "commId": cid}
			}
		}
		return fail(http.StatusNotFound, "Comment not found")
	})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	s.mutation(w, r, func(uid, id int) (int, map[string]any) {
		for i, c := range s.comments {
			if c.ID != id {
				continue
			}
			if c.AuthorUID != uid {
				return http.StatusForbidden, map[string]any{"error": "You can only delete your own comments"}
			}
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return http.StatusOK, map[string]any{"success": true, "message": "Comment deleted successfully"}
		}
		return http.StatusNotFound, map[string]any{"error": "Comment not found"}
	})
}
