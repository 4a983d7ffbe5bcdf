package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sriramramnath/EducationOS/internal/store"
)

type fakeSessions struct {
	users map[string]*store.User
	err   error
}

func (f *fakeSessions) GetUser(_ context.Context, token string, _ time.Time) (*store.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func testHandler(t *testing.T, gotUser **store.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		*gotUser = u
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareValidSession(t *testing.T) {
	user := &store.User{ID: 7, Email: "alice@example.com"}
	sessions := &fakeSessions{users: map[string]*store.User{"tok": user}}

	var gotUser *store.User
	h := Middleware(sessions, slog.New(slog.DiscardHandler))(testHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, int64(7), gotUser.ID)
}

func TestMiddlewareMissingCookie(t *testing.T) {
	h := Middleware(&fakeSessions{}, slog.New(slog.DiscardHandler))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run")
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/goals", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "authentication required", body["error"])
}

func TestMiddlewareUnknownToken(t *testing.T) {
	h := Middleware(&fakeSessions{}, slog.New(slog.DiscardHandler))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "nope"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareStoreError(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("connection refused")}
	h := Middleware(sessions, slog.New(slog.DiscardHandler))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserFromContextMissing(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
