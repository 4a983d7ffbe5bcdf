package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sriramramnath/EducationOS/internal/auth"
	"github.com/sriramramnath/EducationOS/internal/google"
	"github.com/sriramramnath/EducationOS/internal/instrumentation"
	"github.com/sriramramnath/EducationOS/internal/store"
)

const testSessionToken = "test-session"

// fakeSessions resolves the fixed test session to the test user.
type fakeSessions struct {
	user *store.User
}

func (f *fakeSessions) GetUser(_ context.Context, token string, _ time.Time) (*store.User, error) {
	if token == testSessionToken && f.user != nil {
		return f.user, nil
	}
	return nil, store.ErrNotFound
}

// fakeTokens serves stored OAuth tokens; empty by default so Google
// endpoints exercise the disconnected path.
type fakeTokens struct {
	tokens []store.SocialToken
	apps   map[int64]*store.SocialApp
}

func (f *fakeTokens) ListByUser(context.Context, int64) ([]store.SocialToken, error) {
	return f.tokens, nil
}

func (f *fakeTokens) AppByID(_ context.Context, id int64) (*store.SocialApp, error) {
	if app, ok := f.apps[id]; ok {
		return app, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeTokens) AppByProvider(context.Context, string) (*store.SocialApp, error) {
	return nil, store.ErrNotFound
}

type fakeGoals struct {
	nextID int64
	goals  map[int64]*store.Goal
}

func newFakeGoals() *fakeGoals {
	return &fakeGoals{nextID: 1, goals: make(map[int64]*store.Goal)}
}

func (f *fakeGoals) ListByUser(_ context.Context, userID int64) ([]store.Goal, error) {
	var out []store.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoals) Get(_ context.Context, userID, id int64) (*store.Goal, error) {
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGoals) Create(_ context.Context, g *store.Goal) error {
	g.ID = f.nextID
	f.nextID++
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	f.goals[g.ID] = &cp
	return nil
}

func (f *fakeGoals) Update(_ context.Context, g *store.Goal) error {
	if _, ok := f.goals[g.ID]; !ok {
		return store.ErrNotFound
	}
	g.UpdatedAt = time.Now()
	cp := *g
	f.goals[g.ID] = &cp
	return nil
}

func (f *fakeGoals) Delete(_ context.Context, userID, id int64) error {
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.goals, id)
	return nil
}

type fakeAchievements struct {
	created []store.Achievement
}

func (f *fakeAchievements) ListByUser(_ context.Context, userID int64) ([]store.Achievement, error) {
	var out []store.Achievement
	for _, a := range f.created {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAchievements) Create(_ context.Context, a *store.Achievement) error {
	a.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *a)
	return nil
}

type fakeTimeEntries struct {
	nextID  int64
	entries map[int64]*store.TimeEntry
}

func newFakeTimeEntries() *fakeTimeEntries {
	return &fakeTimeEntries{nextID: 1, entries: make(map[int64]*store.TimeEntry)}
}

func (f *fakeTimeEntries) ListByUser(_ context.Context, userID int64) ([]store.TimeEntry, error) {
	var out []store.TimeEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeTimeEntries) Get(_ context.Context, userID, id int64) (*store.TimeEntry, error) {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeTimeEntries) Create(_ context.Context, e *store.TimeEntry) error {
	e.ID = f.nextID
	f.nextID++
	e.ComputeDuration()
	e.CreatedAt = time.Now()
	cp := *e
	f.entries[e.ID] = &cp
	return nil
}

func (f *fakeTimeEntries) Update(_ context.Context, e *store.TimeEntry) error {
	if _, ok := f.entries[e.ID]; !ok {
		return store.ErrNotFound
	}
	e.ComputeDuration()
	cp := *e
	f.entries[e.ID] = &cp
	return nil
}

func (f *fakeTimeEntries) Delete(_ context.Context, userID, id int64) error {
	e, ok := f.entries[id]
	if !ok || e.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

type fakeHabits struct {
	nextID       int64
	habits       map[int64]*store.Habit
	completions  map[int64][]store.HabitCompletion
	completionID int64
}

func newFakeHabits() *fakeHabits {
	return &fakeHabits{
		nextID:      1,
		habits:      make(map[int64]*store.Habit),
		completions: make(map[int64][]store.HabitCompletion),
	}
}

func (f *fakeHabits) ListByUser(_ context.Context, userID int64) ([]store.Habit, error) {
	var out []store.Habit
	for _, h := range f.habits {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeHabits) Get(_ context.Context, userID, id int64) (*store.Habit, error) {
	h, ok := f.habits[id]
	if !ok || h.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (f *fakeHabits) Create(_ context.Context, h *store.Habit) error {
	h.ID = f.nextID
	f.nextID++
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	cp := *h
	f.habits[h.ID] = &cp
	return nil
}

func (f *fakeHabits) Update(_ context.Context, h *store.Habit) error {
	if _, ok := f.habits[h.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *h
	f.habits[h.ID] = &cp
	return nil
}

func (f *fakeHabits) Delete(_ context.Context, userID, id int64) error {
	h, ok := f.habits[id]
	if !ok || h.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.habits, id)
	return nil
}

func (f *fakeHabits) ListCompletions(_ context.Context, habitID int64) ([]store.HabitCompletion, error) {
	return f.completions[habitID], nil
}

func (f *fakeHabits) ToggleCompletion(_ context.Context, habitID int64, date time.Time) (*store.HabitCompletion, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	list := f.completions[habitID]
	for i := range list {
		if list[i].Date.Equal(day) {
			list[i].Completed = !list[i].Completed
			cp := list[i]
			return &cp, nil
		}
	}
	f.completionID++
	c := store.HabitCompletion{
		ID:        f.completionID,
		HabitID:   habitID,
		Date:      day,
		Completed: true,
	}
	f.completions[habitID] = append(list, c)
	return &c, nil
}

type testEnv struct {
	server       *Server
	handler      http.Handler
	goals        *fakeGoals
	achievements *fakeAchievements
	timeEntries  *fakeTimeEntries
	habits       *fakeHabits
	tokens       *fakeTokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	user := &store.User{ID: 1, Email: "alice@example.com"}
	env := &testEnv{
		goals:        newFakeGoals(),
		achievements: &fakeAchievements{},
		timeEntries:  newFakeTimeEntries(),
		habits:       newFakeHabits(),
		tokens:       &fakeTokens{},
	}

	st := &store.Store{
		Sessions:     &fakeSessions{user: user},
		Tokens:       env.tokens,
		Goals:        env.goals,
		Achievements: env.achievements,
		TimeEntries:  env.timeEntries,
		Habits:       env.habits,
	}

	logger := slog.New(slog.DiscardHandler)
	metrics := &instrumentation.Metrics{}
	resolver := google.NewResolver(env.tokens, logger, metrics, 5*time.Second)

	env.server = New(st, resolver, metrics, logger, nil)
	env.handler = env.server.Router()
	return env
}

// do performs an authenticated request against the router.
func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: testSessionToken})
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
