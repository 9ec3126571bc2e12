// Package apitest provides an in-process stand-in for the Serene backend.
//
// The server keeps a small in-memory history so create/list/delete flows
// behave like the real service. Any route can be overridden with a scripted
// handler to simulate failures or slow responses.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/serene/internal/models"
)

// Prefix is the path every backend route is mounted under.
const Prefix = "/api"

// Request is one recorded inbound request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

// HasAuthorization reports whether the request carried an Authorization header.
func (r Request) HasAuthorization() bool { return r.Authorization != "" }

type historyRow struct {
	id        int64
	kind      string
	role      string
	content   string
	summary   *string
	advice    *string
	timestamp time.Time
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []Request
	overrides map[string]http.HandlerFunc
	authorize func(token string) bool

	forecast *models.Forecast
	insights *models.Insights
	streak   int
	report   *models.WeeklyReport

	checkins []models.CheckinDraft
	history  []historyRow
	nextID   int64
	clock    time.Time
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		overrides: make(map[string]http.HandlerFunc),
		clock:     time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route(Prefix, func(r chi.Router) {
		r.Use(s.checkAuth)
		s.route(r, http.MethodGet, "/analytics/mood-forecast", s.getForecast)
		s.route(r, http.MethodGet, "/analytics/insights/latest", s.getInsights)
		s.route(r, http.MethodGet, "/analytics/streak", s.getStreak)
		s.route(r, http.MethodGet, "/analytics/reports/weekly", s.getReport)
		s.route(r, http.MethodPost, "/checkins/", s.postCheckin)
		s.route(r, http.MethodGet, "/journal/", s.listJournal)
		s.route(r, http.MethodPost, "/journal/", s.createJournal)
		s.route(r, http.MethodDelete, "/journal/{id}", s.deleteJournal)
		s.route(r, http.MethodPost, "/chat/message", s.postChat)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value to hand to api.New.
func (s *Server) BaseURL() string { return s.URL + Prefix }

func (s *Server) route(r chi.Router, method, pattern string, fallback http.HandlerFunc) {
	key := routeKey(method, pattern)
	r.MethodFunc(method, pattern, func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		h := s.overrides[key]
		s.mu.Unlock()
		if h != nil {
			h(w, req)
			return
		}
		fallback(w, req)
	})
}

func routeKey(method, pattern string) string { return method + " " + pattern }

// Handle replaces the handler for a route, e.g. Handle("DELETE", "/journal/{id}", h).
func (s *Server) Handle(method, pattern string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[routeKey(method, pattern)] = h
}

// Fail makes a route answer with the given status and a FastAPI-style detail body.
func (s *Server) Fail(method, pattern string, status int) {
	s.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
	})
}

// Reset removes a route override.
func (s *Server) Reset(method, pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, routeKey(method, pattern))
}

// RequireToken rejects requests whose bearer token does not satisfy ok with 401.
func (s *Server) RequireToken(ok func(token string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorize = ok
}

func (s *Server) SetForecast(f *models.Forecast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forecast = f
}

func (s *Server) SetInsights(i *models.Insights) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = i
}

func (s *Server) SetStreak(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streak = n
}

func (s *Server) SetWeeklyReport(r *models.WeeklyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// AddJournal seeds a journal entry and returns its database id.
func (s *Server) AddJournal(content string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert("journal", "user", content, nil, nil)
}

// AddChat seeds a chat message, which the history feed mixes in with journal entries.
func (s *Server) AddChat(role, content string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert("chat", role, content, nil, nil)
}

// Checkins returns the check-ins received so far.
func (s *Server) Checkins() []models.CheckinDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CheckinDraft(nil), s.checkins...)
}

// JournalContents returns the stored journal contents, oldest first.
func (s *Server) JournalContents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, row := range s.history {
		if row.kind == "journal" {
			out = append(out, row.content)
		}
	}
	return out
}

// Requests returns every request recorded so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the recorded requests matching method and path (without Prefix).
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == Prefix+path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		ok := s.authorize
		s.mu.Unlock()
		if ok != nil {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok(token) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid authentication credentials"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getForecast(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	f := s.forecast
	s.mu.Unlock()
	if f == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Not enough data to build a forecast"})
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i := s.insights
	s.mu.Unlock()
	if i == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No check-ins found to analyze"})
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (s *Server) getStreak(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := s.streak
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, models.StreakResponse{Streak: n})
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rep := s.report
	s.mu.Unlock()
	if rep == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No report available"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) postCheckin(w http.ResponseWriter, r *http.Request) {
	var draft models.CheckinDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	s.checkins = append(s.checkins, draft)
	id := int64(len(s.checkins))
	ts := s.tick()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.CheckinReceipt{
		Message:   "check-in saved",
		ID:        id,
		Timestamp: ts.Format(time.RFC3339Nano),
	})
}

func (s *Server) listJournal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rows := append([]historyRow(nil), s.history...)
	s.mu.Unlock()

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].timestamp.After(rows[j].timestamp) })

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"id":        fmt.Sprintf("%s_%d", row.kind, row.id),
			"db_id":     row.id,
			"type":      row.kind,
			"content":   row.content,
			"summary":   row.summary,
			"advice":    row.advice,
			"timestamp": row.timestamp.Format("2006-01-02T15:04:05.999999"),
			"role":      row.role,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createJournal(w http.ResponseWriter, r *http.Request) {
	var req models.NewJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Journal content cannot be empty"})
		return
	}

	summary := "A short reflection."
	advice := "Keep writing, bestie."

	s.mu.Lock()
	id := s.insert("journal", "user", req.Content, &summary, &advice)
	row := s.history[len(s.history)-1]
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        id,
		"content":   row.content,
		"summary":   row.summary,
		"advice":    row.advice,
		"timestamp": row.timestamp.Format("2006-01-02T15:04:05.999999"),
	})
}

func (s *Server) deleteJournal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "entry id must be an integer"})
		return
	}

	s.mu.Lock()
	found := false
	for i, row := range s.history {
		if row.kind == "journal" && row.id == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Journal entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Journal entry deleted"})
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	reply := "I hear you: " + req.Message
	s.mu.Lock()
	s.insert("chat", "user", req.Message, nil, nil)
	s.insert("chat", "model", reply, nil, nil)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
}

// insert must be called with s.mu held.
func (s *Server) insert(kind, role, content string, summary, advice *string) int64 {
	s.nextID++
	s.history = append(s.history, historyRow{
		id:        s.nextID,
		kind:      kind,
		role:      role,
		content:   content,
		summary:   summary,
		advice:    advice,
		timestamp: s.tick(),
	})
	return s.nextID
}

// tick must be called with s.mu held.
func (s *Server) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) { writeJSON(w, status, v) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
